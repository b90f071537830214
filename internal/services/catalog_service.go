package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/textutil"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const maxDescriptionLength = 2000

// ListingCache caches catalog listings. cache.JSONCache satisfies it.
type ListingCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CatalogServiceDeps bundles collaborators required to construct the catalog service.
type CatalogServiceDeps struct {
	Fabrics     repositories.FabricRepository
	Products    repositories.ProductRepository
	Cache       ListingCache
	CacheTTL    time.Duration
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type catalogService struct {
	fabrics  repositories.FabricRepository
	products repositories.ProductRepository
	cache    ListingCache
	ttl      time.Duration
	clock    func() time.Time
	newID    func() string
	logger   func(context.Context, string, map[string]any)
}

var _ CatalogService = (*catalogService)(nil)

// NewCatalogService constructs the catalog service. Listings are cached only when a cache
// and a positive TTL are configured.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Fabrics == nil {
		return nil, errors.New("catalog service: fabric repository is required")
	}
	if deps.Products == nil {
		return nil, errors.New("catalog service: product repository is required")
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	return &catalogService{
		fabrics:  deps.Fabrics,
		products: deps.Products,
		cache:    deps.Cache,
		ttl:      deps.CacheTTL,
		clock:    defaultClock(deps.Clock),
		newID:    idGen,
		logger:   defaultLogger(deps.Logger),
	}, nil
}

func (s *catalogService) ListServices(context.Context) []domain.TailoringService {
	return domain.TailoringServices()
}

func (s *catalogService) ListFabrics(ctx context.Context, filter CatalogFilter) ([]domain.Fabric, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	key := listingKey("fabrics", filter)

	var cached []domain.Fabric
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}
	fabrics, err := s.fabrics.List(ctx, repositories.CatalogListFilter(filter))
	if err != nil {
		return nil, catalogErrorKinds.wrap(err)
	}
	s.writeCache(ctx, key, fabrics)
	return fabrics, nil
}

func (s *catalogService) GetFabric(ctx context.Context, fabricID string) (domain.Fabric, error) {
	fabricID = strings.TrimSpace(fabricID)
	if fabricID == "" {
		return domain.Fabric{}, fmt.Errorf("%w: fabric id is required", ErrCatalogInvalidInput)
	}
	fabric, err := s.fabrics.FindByID(ctx, fabricID)
	if err != nil {
		return domain.Fabric{}, catalogErrorKinds.wrap(err)
	}
	return fabric, nil
}

func (s *catalogService) CreateFabric(ctx context.Context, cmd UpsertFabricCommand) (domain.Fabric, error) {
	fabric, err := buildFabric(cmd)
	if err != nil {
		return domain.Fabric{}, err
	}
	now := s.clock()
	fabric.ID = s.newID()
	fabric.CreatedAt = now
	fabric.UpdatedAt = now
	if err := s.fabrics.Insert(ctx, fabric); err != nil {
		return domain.Fabric{}, catalogErrorKinds.wrap(err)
	}
	s.invalidate(ctx, "fabrics", fabric.Category)
	s.logger(ctx, "catalog.fabric.created", map[string]any{"fabricId": fabric.ID})
	return fabric, nil
}

func (s *catalogService) UpdateFabric(ctx context.Context, cmd UpsertFabricCommand) (domain.Fabric, error) {
	fabric, err := buildFabric(cmd)
	if err != nil {
		return domain.Fabric{}, err
	}
	existing, err := s.GetFabric(ctx, cmd.ID)
	if err != nil {
		return domain.Fabric{}, err
	}
	fabric.ID = existing.ID
	fabric.CreatedAt = existing.CreatedAt
	fabric.UpdatedAt = s.clock()
	if err := s.fabrics.Update(ctx, fabric); err != nil {
		return domain.Fabric{}, catalogErrorKinds.wrap(err)
	}
	s.invalidate(ctx, "fabrics", existing.Category, fabric.Category)
	s.logger(ctx, "catalog.fabric.updated", map[string]any{"fabricId": fabric.ID})
	return fabric, nil
}

// DeleteFabric removes the fabric document only. Orders keep their own snapshot of it.
func (s *catalogService) DeleteFabric(ctx context.Context, fabricID string) error {
	existing, err := s.GetFabric(ctx, fabricID)
	if err != nil {
		return err
	}
	if err := s.fabrics.Delete(ctx, existing.ID); err != nil {
		return catalogErrorKinds.wrap(err)
	}
	s.invalidate(ctx, "fabrics", existing.Category)
	s.logger(ctx, "catalog.fabric.deleted", map[string]any{"fabricId": existing.ID})
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter CatalogFilter) ([]domain.Product, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	key := listingKey("products", filter)

	var cached []domain.Product
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}
	products, err := s.products.List(ctx, repositories.CatalogListFilter(filter))
	if err != nil {
		return nil, catalogErrorKinds.wrap(err)
	}
	s.writeCache(ctx, key, products)
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", ErrCatalogInvalidInput)
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, catalogErrorKinds.wrap(err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, cmd UpsertProductCommand) (domain.Product, error) {
	product, err := buildProduct(cmd)
	if err != nil {
		return domain.Product{}, err
	}
	now := s.clock()
	product.ID = s.newID()
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.products.Insert(ctx, product); err != nil {
		return domain.Product{}, catalogErrorKinds.wrap(err)
	}
	s.invalidate(ctx, "products", product.Category)
	s.logger(ctx, "catalog.product.created", map[string]any{"productId": product.ID})
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, cmd UpsertProductCommand) (domain.Product, error) {
	product, err := buildProduct(cmd)
	if err != nil {
		return domain.Product{}, err
	}
	existing, err := s.GetProduct(ctx, cmd.ID)
	if err != nil {
		return domain.Product{}, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.clock()
	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, catalogErrorKinds.wrap(err)
	}
	s.invalidate(ctx, "products", existing.Category, product.Category)
	s.logger(ctx, "catalog.product.updated", map[string]any{"productId": product.ID})
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID string) error {
	existing, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, existing.ID); err != nil {
		return catalogErrorKinds.wrap(err)
	}
	s.invalidate(ctx, "products", existing.Category)
	s.logger(ctx, "catalog.product.deleted", map[string]any{"productId": existing.ID})
	return nil
}

func (s *catalogService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *catalogService) readCache(ctx context.Context, key string, dest any) bool {
	if !s.cacheEnabled() {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger(ctx, "catalog.cache.read_failed", map[string]any{"key": key, "error": err.Error()})
		return false
	}
	return hit
}

func (s *catalogService) writeCache(ctx context.Context, key string, value any) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger(ctx, "catalog.cache.write_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// invalidate drops every listing a write to the given categories can change: the unfiltered
// listings and the per-category listings, each with and without the availability filter.
func (s *catalogService) invalidate(ctx context.Context, kind string, categories ...string) {
	if !s.cacheEnabled() {
		return
	}
	keys := []string{
		listingKey(kind, CatalogFilter{}),
		listingKey(kind, CatalogFilter{AvailableOnly: true}),
	}
	for _, category := range categories {
		if category == "" {
			continue
		}
		keys = append(keys,
			listingKey(kind, CatalogFilter{Category: category}),
			listingKey(kind, CatalogFilter{Category: category, AvailableOnly: true}),
		)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger(ctx, "catalog.cache.invalidate_failed", map[string]any{"kind": kind, "error": err.Error()})
	}
}

func listingKey(kind string, filter CatalogFilter) string {
	return "catalog:" + kind + ":" + filter.Category + ":" + strconv.FormatBool(filter.AvailableOnly)
}

func buildFabric(cmd UpsertFabricCommand) (domain.Fabric, error) {
	fabric := domain.Fabric{
		Name:          textutil.PlainText(cmd.Name, maxNameLength),
		Description:   textutil.PlainText(cmd.Description, maxDescriptionLength),
		Material:      textutil.PlainText(cmd.Material, maxNameLength),
		Category:      strings.TrimSpace(cmd.Category),
		PricePerMeter: cmd.PricePerMeter,
		Available:     cmd.Available,
		Images:        cleanImages(cmd.Images),
	}
	if fabric.Name == "" {
		return domain.Fabric{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}
	if !fabric.PricePerMeter.IsPositive() {
		return domain.Fabric{}, fmt.Errorf("%w: price_per_meter must be positive", ErrCatalogInvalidInput)
	}
	colors, err := cleanColors(cmd.Colors)
	if err != nil {
		return domain.Fabric{}, err
	}
	fabric.Colors = colors
	return fabric, nil
}

func buildProduct(cmd UpsertProductCommand) (domain.Product, error) {
	product := domain.Product{
		Name:        textutil.PlainText(cmd.Name, maxNameLength),
		Description: textutil.PlainText(cmd.Description, maxDescriptionLength),
		Category:    strings.TrimSpace(cmd.Category),
		Price:       cmd.Price,
		Available:   cmd.Available,
		Images:      cleanImages(cmd.Images),
	}
	if product.Name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}
	if !product.Price.IsPositive() {
		return domain.Product{}, fmt.Errorf("%w: price must be positive", ErrCatalogInvalidInput)
	}
	colors, err := cleanColors(cmd.Colors)
	if err != nil {
		return domain.Product{}, err
	}
	product.Colors = colors
	for i, size := range cmd.Sizes {
		size.Size = strings.TrimSpace(size.Size)
		if size.Size == "" {
			return domain.Product{}, fmt.Errorf("%w: sizes[%d].size is required", ErrCatalogInvalidInput, i)
		}
		if size.Stock < 0 {
			return domain.Product{}, fmt.Errorf("%w: sizes[%d].stock must not be negative", ErrCatalogInvalidInput, i)
		}
		product.Sizes = append(product.Sizes, size)
	}
	return product, nil
}

func cleanColors(colors []domain.ColorVariant) ([]domain.ColorVariant, error) {
	var out []domain.ColorVariant
	for i, color := range colors {
		color.Name = textutil.PlainText(color.Name, maxStyleLength)
		color.Hex = strings.TrimSpace(color.Hex)
		color.ImageURL = strings.TrimSpace(color.ImageURL)
		if color.Name == "" {
			return nil, fmt.Errorf("%w: colors[%d].name is required", ErrCatalogInvalidInput, i)
		}
		if color.Stock < 0 {
			return nil, fmt.Errorf("%w: colors[%d].stock must not be negative", ErrCatalogInvalidInput, i)
		}
		out = append(out, color)
	}
	return out, nil
}

func cleanImages(images []string) []string {
	var out []string
	for _, image := range images {
		if image = strings.TrimSpace(image); image != "" {
			out = append(out, image)
		}
	}
	return out
}
