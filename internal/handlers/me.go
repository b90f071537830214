package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/auth"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/httpx"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/pagination"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

// MeHandlers serves the signed-in customer's profile and order history.
type MeHandlers struct {
	authn         *auth.Authenticator
	customers     services.CustomerService
	fabricOrders  services.FabricOrderService
	productOrders services.ProductOrderService
}

// NewMeHandlers constructs the /me handlers.
func NewMeHandlers(authn *auth.Authenticator, customers services.CustomerService, fabricOrders services.FabricOrderService, productOrders services.ProductOrderService) *MeHandlers {
	return &MeHandlers{
		authn:         authn,
		customers:     customers,
		fabricOrders:  fabricOrders,
		productOrders: productOrders,
	}
}

// Routes registers the /me endpoints.
func (h *MeHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth())
	}
	r.Get("/", h.getProfile)
	r.Put("/", h.updateProfile)
	r.Get("/orders", h.listFabricOrders)
	r.Get("/orders/{orderID}", h.getFabricOrder)
	r.Get("/product-orders", h.listProductOrders)
	r.Get("/product-orders/{orderID}", h.getProductOrder)
}

type updateProfileRequest struct {
	Name              *string           `json:"name"`
	Phone             *string           `json:"phone"`
	Email             *string           `json:"email"`
	PreferredLanguage *string           `json:"preferred_language"`
	Addresses         *[]addressPayload `json:"addresses"`
}

func (h *MeHandlers) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.customers == nil {
		writeServiceUnavailable(ctx, w, "customer")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	customer, err := h.customers.GetOrCreate(ctx, customerIdentity(identity))
	if err != nil {
		writeCustomerError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCustomerPayload(customer))
}

func (h *MeHandlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.customers == nil {
		writeServiceUnavailable(ctx, w, "customer")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSONBody(r, maxProfileBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	cmd := services.UpdateCustomerCommand{
		Identity:          customerIdentity(identity),
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		PreferredLanguage: req.PreferredLanguage,
	}
	if req.Addresses != nil {
		addresses := make([]domain.Address, 0, len(*req.Addresses))
		for _, addr := range *req.Addresses {
			addresses = append(addresses, addr.toDomain())
		}
		cmd.Addresses = &addresses
	}

	customer, err := h.customers.Update(ctx, cmd)
	if err != nil {
		writeCustomerError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCustomerPayload(customer))
}

func (h *MeHandlers) listFabricOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.fabricOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	filter, ok := parseOrderListFilter(w, r)
	if !ok {
		return
	}
	filter.CustomerID = identity.UID

	page, err := h.fabricOrders.ListOrders(ctx, filter)
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderList(page, buildFabricOrderPayload))
}

func (h *MeHandlers) getFabricOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.fabricOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	order, err := h.fabricOrders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	if order.Customer.AccountID != identity.UID {
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", "order not found", http.StatusNotFound))
		return
	}
	writeJSONResponse(w, http.StatusOK, buildFabricOrderPayload(order))
}

func (h *MeHandlers) listProductOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.productOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	filter, ok := parseOrderListFilter(w, r)
	if !ok {
		return
	}
	filter.CustomerID = identity.UID

	page, err := h.productOrders.ListOrders(ctx, filter)
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderList(page, buildProductOrderPayload))
}

func (h *MeHandlers) getProductOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.productOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	order, err := h.productOrders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	if order.Customer.AccountID != identity.UID {
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", "order not found", http.StatusNotFound))
		return
	}
	writeJSONResponse(w, http.StatusOK, buildProductOrderPayload(order))
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return nil, false
	}
	return identity, true
}

func customerIdentity(identity *auth.Identity) services.CustomerIdentity {
	return services.CustomerIdentity{
		UID:   identity.UID,
		Name:  identity.Name,
		Email: identity.Email,
		Phone: identity.Phone,
	}
}

// parseOrderListFilter reads status, page_size and page_token.
func parseOrderListFilter(w http.ResponseWriter, r *http.Request) (services.OrderListFilter, bool) {
	ctx := r.Context()
	query := r.URL.Query()
	params, err := pagination.ParseParams(query)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest).WithFields("page_size", "page_token"))
		return services.OrderListFilter{}, false
	}
	return services.OrderListFilter{
		Status: domain.OrderStatus(strings.ToLower(strings.TrimSpace(query.Get("status")))),
		Pagination: domain.Pagination{
			PageSize:  params.PageSize,
			PageToken: params.PageToken,
		},
	}, true
}
