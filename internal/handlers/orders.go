package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/auth"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/httpx"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

const (
	defaultOrderRateLimit  = 10
	defaultOrderRateWindow = time.Minute
)

// OrderHandlers places fabric, fabric-only and product orders for signed-in customers.
type OrderHandlers struct {
	authn         *auth.Authenticator
	fabricOrders  services.FabricOrderService
	productOrders services.ProductOrderService
	idempotency   func(http.Handler) http.Handler
	limiter       rateLimiter
}

// OrderOption customises OrderHandlers.
type OrderOption func(*OrderHandlers)

// WithOrderIdempotency wraps the create endpoints so a retried checkout with the same
// Idempotency-Key replays the first response instead of placing a second order.
func WithOrderIdempotency(mw func(http.Handler) http.Handler) OrderOption {
	return func(h *OrderHandlers) {
		h.idempotency = mw
	}
}

// WithOrderRateLimit caps how many orders one account can place per window.
// A non-positive limit disables the cap.
func WithOrderRateLimit(limit int, window time.Duration, clock func() time.Time) OrderOption {
	return func(h *OrderHandlers) {
		h.limiter = newSimpleRateLimiter(limit, window, clock)
	}
}

// NewOrderHandlers constructs the order placement handlers.
func NewOrderHandlers(authn *auth.Authenticator, fabricOrders services.FabricOrderService, productOrders services.ProductOrderService, opts ...OrderOption) *OrderHandlers {
	h := &OrderHandlers{
		authn:         authn,
		fabricOrders:  fabricOrders,
		productOrders: productOrders,
		limiter:       newSimpleRateLimiter(defaultOrderRateLimit, defaultOrderRateWindow, nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers the /orders endpoints.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth())
	}
	if h.idempotency != nil {
		r.Use(h.idempotency)
	}
	r.Post("/fabric", h.createTailoringOrder)
	r.Post("/fabric-only", h.createFabricOnlyOrder)
	r.Post("/products", h.createProductOrder)
}

type customerInfoRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type customizationRequest struct {
	CollarStyle string `json:"collar_style"`
	SleeveStyle string `json:"sleeve_style"`
	ButtonStyle string `json:"button_style"`
	PocketStyle string `json:"pocket_style"`
	Fit         string `json:"fit"`
	Notes       string `json:"notes"`
	ImageBase64 string `json:"image_base64"`
}

type tailoringOrderRequest struct {
	ServiceID     string               `json:"service_id"`
	FabricID      string               `json:"fabric_id"`
	ColorIndex    int                  `json:"color_index"`
	Quantity      json.Number          `json:"quantity"`
	Customization customizationRequest `json:"customization"`
	Measurements  []measurementPayload `json:"measurements"`
	Customer      customerInfoRequest  `json:"customer"`
	Address       addressPayload       `json:"address"`
	PaymentMethod string               `json:"payment_method"`
}

type fabricOnlyOrderRequest struct {
	FabricID      string              `json:"fabric_id"`
	ColorIndex    int                 `json:"color_index"`
	Quantity      json.Number         `json:"quantity"`
	Customer      customerInfoRequest `json:"customer"`
	Address       addressPayload      `json:"address"`
	PaymentMethod string              `json:"payment_method"`
}

type productLineRequest struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	ImageURL  string      `json:"image_url"`
	Size      string      `json:"size"`
	Color     string      `json:"color"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
}

type productOrderRequest struct {
	Items         []productLineRequest `json:"items"`
	Customer      customerInfoRequest  `json:"customer"`
	Address       addressPayload       `json:"address"`
	PaymentMethod string               `json:"payment_method"`
}

func (h *OrderHandlers) createTailoringOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.fabricOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := h.admit(w, r)
	if !ok {
		return
	}

	var req tailoringOrderRequest
	if err := decodeJSONBody(r, maxOrderBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	quantity, err := amount(req.Quantity)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "quantity must be a number", http.StatusBadRequest).WithFields("quantity"))
		return
	}
	measurements, err := parseMeasurements(req.Measurements)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest).WithFields("measurements"))
		return
	}

	receipt, err := h.fabricOrders.CreateTailoringOrder(ctx, services.CreateTailoringOrderCommand{
		ServiceID:  req.ServiceID,
		FabricID:   req.FabricID,
		ColorIndex: req.ColorIndex,
		Quantity:   quantity,
		Customization: services.CustomizationInput{
			CollarStyle: req.Customization.CollarStyle,
			SleeveStyle: req.Customization.SleeveStyle,
			ButtonStyle: req.Customization.ButtonStyle,
			PocketStyle: req.Customization.PocketStyle,
			Fit:         req.Customization.Fit,
			Notes:       req.Customization.Notes,
			ImageBase64: req.Customization.ImageBase64,
		},
		Measurements:  measurements,
		Customer:      orderCustomer(req.Customer, identity),
		Address:       req.Address.toDomain(),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, orderReceiptResponse[fabricOrderPayload]{
		ID:          receipt.ID,
		OrderNumber: receipt.OrderNumber,
		Order:       buildFabricOrderPayload(receipt.Order),
	})
}

func (h *OrderHandlers) createFabricOnlyOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.fabricOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := h.admit(w, r)
	if !ok {
		return
	}

	var req fabricOnlyOrderRequest
	if err := decodeJSONBody(r, maxOrderBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	quantity, err := amount(req.Quantity)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "quantity must be a number", http.StatusBadRequest).WithFields("quantity"))
		return
	}

	receipt, err := h.fabricOrders.CreateFabricOnlyOrder(ctx, services.CreateFabricOnlyOrderCommand{
		FabricID:      req.FabricID,
		ColorIndex:    req.ColorIndex,
		Quantity:      quantity,
		Customer:      orderCustomer(req.Customer, identity),
		Address:       req.Address.toDomain(),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, orderReceiptResponse[fabricOrderPayload]{
		ID:          receipt.ID,
		OrderNumber: receipt.OrderNumber,
		Order:       buildFabricOrderPayload(receipt.Order),
	})
}

func (h *OrderHandlers) createProductOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.productOrders == nil {
		writeServiceUnavailable(ctx, w, "order")
		return
	}
	identity, ok := h.admit(w, r)
	if !ok {
		return
	}

	var req productOrderRequest
	if err := decodeJSONBody(r, maxOrderBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	lines := make([]services.ProductLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		price, err := amount(item.Price)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "price must be a number", http.StatusBadRequest).WithFields("items.price"))
			return
		}
		lines = append(lines, services.ProductLineInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			ImageURL:  item.ImageURL,
			Size:      item.Size,
			Color:     item.Color,
			Price:     price,
			Quantity:  item.Quantity,
		})
	}

	receipt, err := h.productOrders.CreateOrder(ctx, services.CreateProductOrderCommand{
		Customer:      orderCustomer(req.Customer, identity),
		Address:       req.Address.toDomain(),
		Items:         lines,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, orderReceiptResponse[productOrderPayload]{
		ID:          receipt.ID,
		OrderNumber: receipt.OrderNumber,
		Order:       buildProductOrderPayload(receipt.Order),
	})
}

// admit resolves the caller and applies the per-account rate limit.
func (h *OrderHandlers) admit(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return nil, false
	}
	if h.limiter == nil {
		return identity, true
	}
	if allowed, retryAfter := h.limiter.Allow(identity.UID); !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		httpx.WriteError(r.Context(), w, httpx.NewError("rate_limited", "too many orders, try again shortly", http.StatusTooManyRequests))
		return nil, false
	}
	return identity, true
}

// orderCustomer links the order to the signed-in account. Contact fields fall back to the
// token claims when the form leaves them blank.
func orderCustomer(req customerInfoRequest, identity *auth.Identity) domain.CustomerInfo {
	info := domain.CustomerInfo{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		AccountID: identity.UID,
	}
	if strings.TrimSpace(info.Name) == "" {
		info.Name = identity.Name
	}
	if strings.TrimSpace(info.Phone) == "" {
		info.Phone = identity.Phone
	}
	if strings.TrimSpace(info.Email) == "" {
		info.Email = identity.Email
	}
	return info
}
