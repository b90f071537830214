package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/httpx"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

const (
	catalogCacheControl  = "public, max-age=300"
	servicesCacheControl = "public, max-age=3600"
)

// CatalogHandlers exposes the unauthenticated storefront catalog.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs the public catalog handlers.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Routes registers the public catalog endpoints.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/services", h.listServices)
	r.Get("/fabrics", h.listFabrics)
	r.Get("/fabrics/{fabricID}", h.getFabric)
	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)
}

func (h *CatalogHandlers) listServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}
	list := h.catalog.ListServices(ctx)
	items := make([]servicePayload, 0, len(list))
	for _, svc := range list {
		items = append(items, buildServicePayload(svc))
	}
	writeCacheableJSON(w, r, servicesCacheControl, map[string]any{"items": items})
}

func (h *CatalogHandlers) listFabrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}
	filter, err := parseCatalogFilter(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	fabrics, err := h.catalog.ListFabrics(ctx, filter)
	if err != nil {
		writeCatalogError(ctx, w, err, "fabric")
		return
	}
	items := make([]fabricPayload, 0, len(fabrics))
	for _, fabric := range fabrics {
		items = append(items, buildFabricPayload(fabric))
	}
	writeCacheableJSON(w, r, catalogCacheControl, map[string]any{"items": items})
}

func (h *CatalogHandlers) getFabric(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}
	fabric, err := h.catalog.GetFabric(ctx, chi.URLParam(r, "fabricID"))
	if err != nil {
		writeCatalogError(ctx, w, err, "fabric")
		return
	}
	writeCacheableJSON(w, r, catalogCacheControl, buildFabricPayload(fabric))
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}
	filter, err := parseCatalogFilter(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	products, err := h.catalog.ListProducts(ctx, filter)
	if err != nil {
		writeCatalogError(ctx, w, err, "product")
		return
	}
	items := make([]productPayload, 0, len(products))
	for _, product := range products {
		items = append(items, buildProductPayload(product))
	}
	writeCacheableJSON(w, r, catalogCacheControl, map[string]any{"items": items})
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}
	product, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeCatalogError(ctx, w, err, "product")
		return
	}
	writeCacheableJSON(w, r, catalogCacheControl, buildProductPayload(product))
}

// parseCatalogFilter reads category and include_unavailable. The storefront sees available
// entries unless include_unavailable=true.
func parseCatalogFilter(r *http.Request) (services.CatalogFilter, error) {
	query := r.URL.Query()
	filter := services.CatalogFilter{
		Category:      strings.TrimSpace(query.Get("category")),
		AvailableOnly: true,
	}
	if raw := strings.TrimSpace(query.Get("include_unavailable")); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return services.CatalogFilter{}, errors.New("include_unavailable must be a boolean")
		}
		filter.AvailableOnly = !include
	}
	return filter, nil
}

// writeCacheableJSON writes payload with a content ETag and answers 304 when the client
// already holds the same representation.
func writeCacheableJSON(w http.ResponseWriter, r *http.Request, cacheControl string, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("encode_failed", "failed to encode response", http.StatusInternalServerError))
		return
	}
	sum := sha256.Sum256(buf.Bytes())
	etag := `W/"` + hex.EncodeToString(sum[:12]) + `"`

	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("ETag", etag)
	if matchesETag(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func matchesETag(r *http.Request, etag string) bool {
	if etag == "" || r == nil {
		return false
	}
	raw := r.Header.Get("If-None-Match")
	if strings.TrimSpace(raw) == "" {
		return false
	}
	for _, candidate := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "*" || trimmed == etag {
			return true
		}
	}
	return false
}
