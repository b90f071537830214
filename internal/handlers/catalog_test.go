package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

func newCatalogRouter(h *CatalogHandlers) chi.Router {
	router := chi.NewRouter()
	h.Routes(router)
	return router
}

func TestCatalogHandlers_ListServices(t *testing.T) {
	h := NewCatalogHandlers(&stubCatalogService{})

	rr := httptest.NewRecorder()
	newCatalogRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/services", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("Cache-Control") != servicesCacheControl {
		t.Fatalf("unexpected cache control %q", rr.Header().Get("Cache-Control"))
	}
	var body struct {
		Items []servicePayload `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	var kurta *servicePayload
	for i := range body.Items {
		if body.Items[i].ID == "kurta-tailoring" {
			kurta = &body.Items[i]
		}
	}
	if kurta == nil || kurta.Price != 650 {
		t.Fatalf("expected kurta-tailoring at 650, got %+v", body.Items)
	}
}

func TestCatalogHandlers_ListFabricsFilters(t *testing.T) {
	var captured []services.CatalogFilter
	catalog := &stubCatalogService{
		listFabricsFunc: func(_ context.Context, filter services.CatalogFilter) ([]domain.Fabric, error) {
			captured = append(captured, filter)
			return []domain.Fabric{{
				ID:            "fab_cotton",
				Name:          "Cotton",
				PricePerMeter: decimal.NewFromInt(450),
				Available:     true,
				Colors:        []domain.ColorVariant{{Name: "Indigo", Hex: "#3F51B5", Stock: 12}},
			}}, nil
		},
	}
	router := newCatalogRouter(NewCatalogHandlers(catalog))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fabrics?category=cotton", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fabrics?include_unavailable=true", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if len(captured) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(captured))
	}
	if captured[0].Category != "cotton" || !captured[0].AvailableOnly {
		t.Fatalf("unexpected default filter %+v", captured[0])
	}
	if captured[1].AvailableOnly {
		t.Fatalf("include_unavailable must disable the availability filter")
	}

	var body struct {
		Items []fabricPayload `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].PricePerMeter != 450 || body.Items[0].Colors[0].Stock != 12 {
		t.Fatalf("unexpected fabrics %+v", body.Items)
	}
}

func TestCatalogHandlers_InvalidIncludeUnavailable(t *testing.T) {
	router := newCatalogRouter(NewCatalogHandlers(&stubCatalogService{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products?include_unavailable=maybe", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCatalogHandlers_ETagNotModified(t *testing.T) {
	catalog := &stubCatalogService{
		listProductsFunc: func(context.Context, services.CatalogFilter) ([]domain.Product, error) {
			return []domain.Product{{
				ID:        "prd_1",
				Name:      "Dupatta",
				Price:     decimal.NewFromInt(200),
				Available: true,
				Sizes:     []domain.SizeVariant{{Size: "M", Stock: 4}},
			}}, nil
		},
	}
	router := newCatalogRouter(NewCatalogHandlers(catalog))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body on 304")
	}
}

func TestCatalogHandlers_GetFabricNotFound(t *testing.T) {
	catalog := &stubCatalogService{
		getFabricFunc: func(context.Context, string) (domain.Fabric, error) {
			return domain.Fabric{}, services.ErrCatalogNotFound
		},
	}
	router := newCatalogRouter(NewCatalogHandlers(catalog))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fabrics/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["error"] != "fabric_not_found" {
		t.Fatalf("expected fabric_not_found, got %v", body["error"])
	}
}
