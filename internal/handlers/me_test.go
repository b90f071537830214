package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

func newMeRouter(h *MeHandlers) chi.Router {
	router := chi.NewRouter()
	router.Route("/me", h.Routes)
	return router
}

func TestMeHandlers_GetProfileSeedsFromIdentity(t *testing.T) {
	var captured services.CustomerIdentity
	customers := &stubCustomerService{
		getOrCreateFunc: func(_ context.Context, identity services.CustomerIdentity) (domain.Customer, error) {
			captured = identity
			return domain.Customer{UID: identity.UID, Name: identity.Name, Phone: identity.Phone}, nil
		},
	}
	h := NewMeHandlers(nil, customers, nil, nil)

	rr := httptest.NewRecorder()
	newMeRouter(h).ServeHTTP(rr, newAuthedRequest(http.MethodGet, "/me/", "", "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.UID != "user-1" || captured.Name != "Asha Verma" {
		t.Fatalf("unexpected identity %+v", captured)
	}
	var body customerPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.UID != "user-1" || body.Phone != "+919800000001" {
		t.Fatalf("unexpected profile %+v", body)
	}
	if body.Addresses == nil {
		t.Fatalf("expected empty address list, got null")
	}
}

func TestMeHandlers_UpdateProfile(t *testing.T) {
	var captured services.UpdateCustomerCommand
	customers := &stubCustomerService{
		updateFunc: func(_ context.Context, cmd services.UpdateCustomerCommand) (domain.Customer, error) {
			captured = cmd
			return domain.Customer{UID: cmd.Identity.UID, Name: *cmd.Name, PreferredLanguage: "hi-IN"}, nil
		},
	}
	h := NewMeHandlers(nil, customers, nil, nil)

	body := `{"name":"Asha V.","preferred_language":"hi-in","addresses":[{"line1":"12 MG Road","city":"Pune","state":"MH","pincode":"411001"}]}`
	rr := httptest.NewRecorder()
	newMeRouter(h).ServeHTTP(rr, newAuthedRequest(http.MethodPut, "/me/", body, "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Name == nil || *captured.Name != "Asha V." {
		t.Fatalf("expected name update, got %v", captured.Name)
	}
	if captured.Phone != nil || captured.Email != nil {
		t.Fatalf("omitted fields must stay nil")
	}
	if captured.Addresses == nil || len(*captured.Addresses) != 1 || (*captured.Addresses)[0].City != "Pune" {
		t.Fatalf("unexpected addresses %+v", captured.Addresses)
	}
}

func TestMeHandlers_UpdateProfileValidationError(t *testing.T) {
	customers := &stubCustomerService{
		updateFunc: func(context.Context, services.UpdateCustomerCommand) (domain.Customer, error) {
			return domain.Customer{}, fmt.Errorf("%w: name must not be blank", services.ErrCustomerInvalidInput)
		},
	}
	h := NewMeHandlers(nil, customers, nil, nil)

	rr := httptest.NewRecorder()
	newMeRouter(h).ServeHTTP(rr, newAuthedRequest(http.MethodPut, "/me/", `{"name":"  "}`, "user-1"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMeHandlers_ListOrdersScopedToCaller(t *testing.T) {
	var captured services.OrderListFilter
	fabricSvc := &stubFabricOrderService{
		listFunc: func(_ context.Context, filter services.OrderListFilter) (domain.CursorPage[domain.FabricOrder], error) {
			captured = filter
			return domain.CursorPage[domain.FabricOrder]{
				Items:         []domain.FabricOrder{{ID: "ord_1", OrderNumber: "ORD-20240310-0001", Status: domain.OrderStatusPending}},
				NextPageToken: "next",
			}, nil
		},
	}
	h := NewMeHandlers(nil, nil, fabricSvc, nil)

	rr := httptest.NewRecorder()
	newMeRouter(h).ServeHTTP(rr, newAuthedRequest(http.MethodGet, "/me/orders?status=Pending&page_size=10&customer_id=someone-else", "", "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.CustomerID != "user-1" {
		t.Fatalf("expected listing scoped to caller, got %q", captured.CustomerID)
	}
	if captured.Status != domain.OrderStatusPending || captured.Pagination.PageSize != 10 {
		t.Fatalf("unexpected filter %+v", captured)
	}
	var body struct {
		Items         []fabricOrderPayload `json:"items"`
		NextPageToken string               `json:"next_page_token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Items) != 1 || body.NextPageToken != "next" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestMeHandlers_OrderOwnedByAnotherAccountIsHidden(t *testing.T) {
	productSvc := &stubProductOrderService{
		getFunc: func(_ context.Context, id string) (domain.ProductOrder, error) {
			return domain.ProductOrder{ID: id, Customer: domain.CustomerInfo{AccountID: "user-2"}}, nil
		},
	}
	h := NewMeHandlers(nil, nil, nil, productSvc)

	rr := httptest.NewRecorder()
	newMeRouter(h).ServeHTTP(rr, newAuthedRequest(http.MethodGet, "/me/product-orders/pord_9", "", "user-1"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMeHandlers_GetOwnFabricOrder(t *testing.T) {
	fabricSvc := &stubFabricOrderService{
		getFunc: func(_ context.Context, id string) (domain.FabricOrder, error) {
			return domain.FabricOrder{ID: id, Customer: domain.CustomerInfo{AccountID: "user-1"}, Status: domain.OrderStatusReady}, nil
		},
	}
	h := NewMeHandlers(nil, nil, fabricSvc, nil)

	rr := httptest.NewRecorder()
	newMeRouter(h).ServeHTTP(rr, newAuthedRequest(http.MethodGet, "/me/orders/ord_1", "", "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body fabricOrderPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ID != "ord_1" || body.Status != "ready" {
		t.Fatalf("unexpected order %+v", body)
	}
}

func TestMeHandlers_InvalidPageSize(t *testing.T) {
	h := NewMeHandlers(nil, nil, &stubFabricOrderService{}, nil)

	rr := httptest.NewRecorder()
	newMeRouter(h).ServeHTTP(rr, newAuthedRequest(http.MethodGet, "/me/orders?page_size=abc", "", "user-1"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
