package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/auth"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/httpx"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

// AdminCatalogHandlers exposes admin catalog CRUD endpoints.
type AdminCatalogHandlers struct {
	authn   *auth.Authenticator
	catalog services.CatalogService
}

// NewAdminCatalogHandlers constructs admin catalog handlers.
func NewAdminCatalogHandlers(authn *auth.Authenticator, catalog services.CatalogService) *AdminCatalogHandlers {
	return &AdminCatalogHandlers{authn: authn, catalog: catalog}
}

// Routes registers admin catalog endpoints.
func (h *AdminCatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth(auth.RoleAdmin))
	}
	r.Post("/fabrics", h.createFabric)
	r.Put("/fabrics/{fabricID}", h.updateFabric)
	r.Delete("/fabrics/{fabricID}", h.deleteFabric)
	r.Post("/products", h.createProduct)
	r.Put("/products/{productID}", h.updateProduct)
	r.Delete("/products/{productID}", h.deleteProduct)
}

type fabricRequest struct {
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Material      string                `json:"material"`
	Category      string                `json:"category"`
	PricePerMeter json.Number           `json:"price_per_meter"`
	Available     bool                  `json:"available"`
	Colors        []colorVariantPayload `json:"colors"`
	Images        []string              `json:"images"`
}

type productRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Price       json.Number           `json:"price"`
	Available   bool                  `json:"available"`
	Colors      []colorVariantPayload `json:"colors"`
	Sizes       []sizeVariantPayload  `json:"sizes"`
	Images      []string              `json:"images"`
}

func (h *AdminCatalogHandlers) createFabric(w http.ResponseWriter, r *http.Request) {
	h.saveFabric(w, r, "")
}

func (h *AdminCatalogHandlers) updateFabric(w http.ResponseWriter, r *http.Request) {
	h.saveFabric(w, r, chi.URLParam(r, "fabricID"))
}

func (h *AdminCatalogHandlers) saveFabric(w http.ResponseWriter, r *http.Request, fabricID string) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}

	var req fabricRequest
	if err := decodeJSONBody(r, maxCatalogBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	price, err := amount(req.PricePerMeter)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "price_per_meter must be a number", http.StatusBadRequest).WithFields("price_per_meter"))
		return
	}
	cmd := services.UpsertFabricCommand{
		ID:            fabricID,
		Name:          req.Name,
		Description:   req.Description,
		Material:      req.Material,
		Category:      req.Category,
		PricePerMeter: price,
		Available:     req.Available,
		Colors:        colorsFromPayload(req.Colors),
		Images:        req.Images,
	}

	status := http.StatusOK
	save := h.catalog.UpdateFabric
	if fabricID == "" {
		status = http.StatusCreated
		save = h.catalog.CreateFabric
	}
	fabric, err := save(ctx, cmd)
	if err != nil {
		writeCatalogError(ctx, w, err, "fabric")
		return
	}
	writeJSONResponse(w, status, buildFabricPayload(fabric))
}

func (h *AdminCatalogHandlers) deleteFabric(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}
	if err := h.catalog.DeleteFabric(ctx, chi.URLParam(r, "fabricID")); err != nil {
		writeCatalogError(ctx, w, err, "fabric")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminCatalogHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "")
}

func (h *AdminCatalogHandlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, chi.URLParam(r, "productID"))
}

func (h *AdminCatalogHandlers) saveProduct(w http.ResponseWriter, r *http.Request, productID string) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}

	var req productRequest
	if err := decodeJSONBody(r, maxCatalogBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	price, err := amount(req.Price)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "price must be a number", http.StatusBadRequest).WithFields("price"))
		return
	}
	cmd := services.UpsertProductCommand{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		Available:   req.Available,
		Colors:      colorsFromPayload(req.Colors),
		Images:      req.Images,
	}
	for _, size := range req.Sizes {
		cmd.Sizes = append(cmd.Sizes, domain.SizeVariant(size))
	}

	status := http.StatusOK
	save := h.catalog.UpdateProduct
	if productID == "" {
		status = http.StatusCreated
		save = h.catalog.CreateProduct
	}
	product, err := save(ctx, cmd)
	if err != nil {
		writeCatalogError(ctx, w, err, "product")
		return
	}
	writeJSONResponse(w, status, buildProductPayload(product))
}

func (h *AdminCatalogHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}
	if err := h.catalog.DeleteProduct(ctx, chi.URLParam(r, "productID")); err != nil {
		writeCatalogError(ctx, w, err, "product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
