package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/auth"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

type stubFabricOrderService struct {
	createTailoringFunc  func(context.Context, services.CreateTailoringOrderCommand) (services.OrderReceipt[domain.FabricOrder], error)
	createFabricOnlyFunc func(context.Context, services.CreateFabricOnlyOrderCommand) (services.OrderReceipt[domain.FabricOrder], error)
	getFunc              func(context.Context, string) (domain.FabricOrder, error)
	listFunc             func(context.Context, services.OrderListFilter) (domain.CursorPage[domain.FabricOrder], error)
	updateStatusFunc     func(context.Context, services.UpdateOrderStatusCommand) (domain.FabricOrder, error)
}

func (s *stubFabricOrderService) CreateTailoringOrder(ctx context.Context, cmd services.CreateTailoringOrderCommand) (services.OrderReceipt[domain.FabricOrder], error) {
	return s.createTailoringFunc(ctx, cmd)
}

func (s *stubFabricOrderService) CreateFabricOnlyOrder(ctx context.Context, cmd services.CreateFabricOnlyOrderCommand) (services.OrderReceipt[domain.FabricOrder], error) {
	return s.createFabricOnlyFunc(ctx, cmd)
}

func (s *stubFabricOrderService) GetOrder(ctx context.Context, id string) (domain.FabricOrder, error) {
	return s.getFunc(ctx, id)
}

func (s *stubFabricOrderService) ListOrders(ctx context.Context, filter services.OrderListFilter) (domain.CursorPage[domain.FabricOrder], error) {
	return s.listFunc(ctx, filter)
}

func (s *stubFabricOrderService) UpdateStatus(ctx context.Context, cmd services.UpdateOrderStatusCommand) (domain.FabricOrder, error) {
	return s.updateStatusFunc(ctx, cmd)
}

type stubProductOrderService struct {
	createFunc        func(context.Context, services.CreateProductOrderCommand) (services.OrderReceipt[domain.ProductOrder], error)
	getFunc           func(context.Context, string) (domain.ProductOrder, error)
	listFunc          func(context.Context, services.OrderListFilter) (domain.CursorPage[domain.ProductOrder], error)
	updateStatusFunc  func(context.Context, services.UpdateOrderStatusCommand) (domain.ProductOrder, error)
	updatePaymentFunc func(context.Context, services.UpdatePaymentStatusCommand) (domain.ProductOrder, error)
}

func (s *stubProductOrderService) CreateOrder(ctx context.Context, cmd services.CreateProductOrderCommand) (services.OrderReceipt[domain.ProductOrder], error) {
	return s.createFunc(ctx, cmd)
}

func (s *stubProductOrderService) GetOrder(ctx context.Context, id string) (domain.ProductOrder, error) {
	return s.getFunc(ctx, id)
}

func (s *stubProductOrderService) ListOrders(ctx context.Context, filter services.OrderListFilter) (domain.CursorPage[domain.ProductOrder], error) {
	return s.listFunc(ctx, filter)
}

func (s *stubProductOrderService) UpdateStatus(ctx context.Context, cmd services.UpdateOrderStatusCommand) (domain.ProductOrder, error) {
	return s.updateStatusFunc(ctx, cmd)
}

func (s *stubProductOrderService) UpdatePaymentStatus(ctx context.Context, cmd services.UpdatePaymentStatusCommand) (domain.ProductOrder, error) {
	return s.updatePaymentFunc(ctx, cmd)
}

type stubStatsService struct {
	dashboardFunc func(context.Context) (domain.DashboardStats, error)
	refreshFunc   func(context.Context) (domain.DashboardStats, error)
}

func (s *stubStatsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	return s.dashboardFunc(ctx)
}

func (s *stubStatsService) Refresh(ctx context.Context) (domain.DashboardStats, error) {
	return s.refreshFunc(ctx)
}

type stubCatalogService struct {
	services.CatalogService

	listFabricsFunc   func(context.Context, services.CatalogFilter) ([]domain.Fabric, error)
	getFabricFunc     func(context.Context, string) (domain.Fabric, error)
	createFabricFunc  func(context.Context, services.UpsertFabricCommand) (domain.Fabric, error)
	updateFabricFunc  func(context.Context, services.UpsertFabricCommand) (domain.Fabric, error)
	deleteFabricFunc  func(context.Context, string) error
	listProductsFunc  func(context.Context, services.CatalogFilter) ([]domain.Product, error)
	createProductFunc func(context.Context, services.UpsertProductCommand) (domain.Product, error)
}

func (s *stubCatalogService) ListServices(context.Context) []domain.TailoringService {
	return domain.TailoringServices()
}

func (s *stubCatalogService) ListFabrics(ctx context.Context, filter services.CatalogFilter) ([]domain.Fabric, error) {
	return s.listFabricsFunc(ctx, filter)
}

func (s *stubCatalogService) GetFabric(ctx context.Context, id string) (domain.Fabric, error) {
	return s.getFabricFunc(ctx, id)
}

func (s *stubCatalogService) CreateFabric(ctx context.Context, cmd services.UpsertFabricCommand) (domain.Fabric, error) {
	return s.createFabricFunc(ctx, cmd)
}

func (s *stubCatalogService) UpdateFabric(ctx context.Context, cmd services.UpsertFabricCommand) (domain.Fabric, error) {
	return s.updateFabricFunc(ctx, cmd)
}

func (s *stubCatalogService) DeleteFabric(ctx context.Context, id string) error {
	return s.deleteFabricFunc(ctx, id)
}

func (s *stubCatalogService) ListProducts(ctx context.Context, filter services.CatalogFilter) ([]domain.Product, error) {
	return s.listProductsFunc(ctx, filter)
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, cmd services.UpsertProductCommand) (domain.Product, error) {
	return s.createProductFunc(ctx, cmd)
}

type stubCustomerService struct {
	getOrCreateFunc func(context.Context, services.CustomerIdentity) (domain.Customer, error)
	updateFunc      func(context.Context, services.UpdateCustomerCommand) (domain.Customer, error)
}

func (s *stubCustomerService) GetOrCreate(ctx context.Context, identity services.CustomerIdentity) (domain.Customer, error) {
	return s.getOrCreateFunc(ctx, identity)
}

func (s *stubCustomerService) Update(ctx context.Context, cmd services.UpdateCustomerCommand) (domain.Customer, error) {
	return s.updateFunc(ctx, cmd)
}

func newAuthedRequest(method, target, body, uid string, roles ...string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if uid == "" {
		return req
	}
	return req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{UID: uid, Name: "Asha Verma", Phone: "+919800000001", Roles: roles}))
}
