package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/auth"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

// AdminOrderHandlers lets admins browse orders, overwrite their status and read the dashboard.
type AdminOrderHandlers struct {
	authn         *auth.Authenticator
	fabricOrders  services.FabricOrderService
	productOrders services.ProductOrderService
	stats         services.StatsService
}

// NewAdminOrderHandlers constructs the admin order handlers.
func NewAdminOrderHandlers(authn *auth.Authenticator, fabricOrders services.FabricOrderService, productOrders services.ProductOrderService, stats services.StatsService) *AdminOrderHandlers {
	return &AdminOrderHandlers{
		authn:         authn,
		fabricOrders:  fabricOrders,
		productOrders: productOrders,
		stats:         stats,
	}
}

// Routes registers the admin order endpoints. Callers must hold the admin role.
func (h *AdminOrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth(auth.RoleAdmin))
	}
	r.Get("/orders", h.listFabricOrders)
	r.Get("/orders/{orderID}", h.getFabricOrder)
	r.Put("/orders/{orderID}:status", h.updateFabricOrderStatus)
	r.Get("/product-orders", h.listProductOrders)
	r.Get("/product-orders/{orderID}", h.getProductOrder)
	r.Put("/product-orders/{orderID}:status", h.updateProductOrderStatus)
	r.Put("/product-orders/{orderID}:payment-status", h.updatePaymentStatus)
	r.Get("/stats", h.dashboard)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandlers) listFabricOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.fabricOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	filter, ok := parseOrderListFilter(w, r)
	if !ok {
		return
	}
	filter.CustomerID = strings.TrimSpace(r.URL.Query().Get("customer_id"))
	page, err := h.fabricOrders.ListOrders(ctx, filter)
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderList(page, buildFabricOrderPayload))
}

func (h *AdminOrderHandlers) getFabricOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.fabricOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	order, err := h.fabricOrders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildFabricOrderPayload(order))
}

func (h *AdminOrderHandlers) updateFabricOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.fabricOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSONBody(r, maxStatusBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	order, err := h.fabricOrders.UpdateStatus(ctx, services.UpdateOrderStatusCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Status:  domain.OrderStatus(req.Status),
		ActorID: identity.UID,
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildFabricOrderPayload(order))
}

func (h *AdminOrderHandlers) listProductOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.productOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	filter, ok := parseOrderListFilter(w, r)
	if !ok {
		return
	}
	filter.CustomerID = strings.TrimSpace(r.URL.Query().Get("customer_id"))
	page, err := h.productOrders.ListOrders(ctx, filter)
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderList(page, buildProductOrderPayload))
}

func (h *AdminOrderHandlers) getProductOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.productOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	order, err := h.productOrders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildProductOrderPayload(order))
}

func (h *AdminOrderHandlers) updateProductOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.productOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSONBody(r, maxStatusBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	order, err := h.productOrders.UpdateStatus(ctx, services.UpdateOrderStatusCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Status:  domain.OrderStatus(req.Status),
		ActorID: identity.UID,
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildProductOrderPayload(order))
}

func (h *AdminOrderHandlers) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.productOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSONBody(r, maxStatusBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	order, err := h.productOrders.UpdatePaymentStatus(ctx, services.UpdatePaymentStatusCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Status:  domain.PaymentStatus(req.Status),
		ActorID: identity.UID,
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildProductOrderPayload(order))
}

func (h *AdminOrderHandlers) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.stats == nil {
		writeServiceUnavailable(ctx, w, "stats")
		return
	}
	stats, err := h.stats.Dashboard(ctx)
	if err != nil {
		writeStatsError(ctx, w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSONResponse(w, http.StatusOK, buildDashboardStatsPayload(stats))
}
