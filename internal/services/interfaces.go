package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
)

// FabricOrderService builds and manages tailoring and fabric-only orders.
type FabricOrderService interface {
	CreateTailoringOrder(ctx context.Context, cmd CreateTailoringOrderCommand) (OrderReceipt[domain.FabricOrder], error)
	CreateFabricOnlyOrder(ctx context.Context, cmd CreateFabricOnlyOrderCommand) (OrderReceipt[domain.FabricOrder], error)
	GetOrder(ctx context.Context, orderID string) (domain.FabricOrder, error)
	ListOrders(ctx context.Context, filter OrderListFilter) (domain.CursorPage[domain.FabricOrder], error)
	UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (domain.FabricOrder, error)
}

// ProductOrderService builds and manages ready-made product orders.
type ProductOrderService interface {
	CreateOrder(ctx context.Context, cmd CreateProductOrderCommand) (OrderReceipt[domain.ProductOrder], error)
	GetOrder(ctx context.Context, orderID string) (domain.ProductOrder, error)
	ListOrders(ctx context.Context, filter OrderListFilter) (domain.CursorPage[domain.ProductOrder], error)
	UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (domain.ProductOrder, error)
	UpdatePaymentStatus(ctx context.Context, cmd UpdatePaymentStatusCommand) (domain.ProductOrder, error)
}

// StatsService aggregates order statistics for the admin dashboard.
type StatsService interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
	Refresh(ctx context.Context) (domain.DashboardStats, error)
}

// CatalogService exposes fabrics, products and the fixed tailoring services.
type CatalogService interface {
	ListServices(ctx context.Context) []domain.TailoringService
	ListFabrics(ctx context.Context, filter CatalogFilter) ([]domain.Fabric, error)
	GetFabric(ctx context.Context, fabricID string) (domain.Fabric, error)
	CreateFabric(ctx context.Context, cmd UpsertFabricCommand) (domain.Fabric, error)
	UpdateFabric(ctx context.Context, cmd UpsertFabricCommand) (domain.Fabric, error)
	DeleteFabric(ctx context.Context, fabricID string) error
	ListProducts(ctx context.Context, filter CatalogFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	CreateProduct(ctx context.Context, cmd UpsertProductCommand) (domain.Product, error)
	UpdateProduct(ctx context.Context, cmd UpsertProductCommand) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// CustomerService manages the profile layered over the identity provider account.
type CustomerService interface {
	GetOrCreate(ctx context.Context, identity CustomerIdentity) (domain.Customer, error)
	Update(ctx context.Context, cmd UpdateCustomerCommand) (domain.Customer, error)
}

// SystemService reports service health.
type SystemService interface {
	HealthReport(ctx context.Context) (domain.SystemHealthReport, error)
}

// OrderReceipt is returned by the order builders: the document id, the human-facing
// number and the persisted order.
type OrderReceipt[T any] struct {
	ID          string
	OrderNumber string
	Order       T
}

// CustomizationInput carries style choices and the optional base64 reference image.
type CustomizationInput struct {
	CollarStyle string
	SleeveStyle string
	ButtonStyle string
	PocketStyle string
	Fit         string
	Notes       string
	ImageBase64 string
}

// CreateTailoringOrderCommand places a tailoring order, optionally with fabric bought by the meter.
// ColorIndex selects one of the fabric's color variants; out-of-range indexes leave the color empty.
type CreateTailoringOrderCommand struct {
	ServiceID     string
	FabricID      string
	ColorIndex    int
	Quantity      decimal.Decimal
	Customization CustomizationInput
	Measurements  []domain.Measurements
	Customer      domain.CustomerInfo
	Address       domain.Address
	PaymentMethod domain.PaymentMethod
}

// CreateFabricOnlyOrderCommand buys fabric without tailoring.
type CreateFabricOnlyOrderCommand struct {
	FabricID      string
	ColorIndex    int
	Quantity      decimal.Decimal
	Customer      domain.CustomerInfo
	Address       domain.Address
	PaymentMethod domain.PaymentMethod
}

// ProductLineInput is one cart line as submitted by the storefront. Price is trusted as sent.
type ProductLineInput struct {
	ProductID string
	Name      string
	Category  string
	ImageURL  string
	Size      string
	Color     string
	Price     decimal.Decimal
	Quantity  int
}

// CreateProductOrderCommand places an order for ready-made products.
type CreateProductOrderCommand struct {
	Customer      domain.CustomerInfo
	Address       domain.Address
	Items         []ProductLineInput
	PaymentMethod domain.PaymentMethod
}

// OrderListFilter narrows order listings. CustomerID scopes to one account.
type OrderListFilter struct {
	CustomerID string
	Status     domain.OrderStatus
	Pagination domain.Pagination
}

// UpdateOrderStatusCommand overwrites an order's status.
type UpdateOrderStatusCommand struct {
	OrderID string
	Status  domain.OrderStatus
	ActorID string
}

// UpdatePaymentStatusCommand overwrites a product order's payment status.
type UpdatePaymentStatusCommand struct {
	OrderID string
	Status  domain.PaymentStatus
	ActorID string
}

// CatalogFilter narrows catalog listings.
type CatalogFilter struct {
	Category      string
	AvailableOnly bool
}

// UpsertFabricCommand creates or replaces a fabric. ID is ignored on create.
type UpsertFabricCommand struct {
	ID            string
	Name          string
	Description   string
	Material      string
	Category      string
	PricePerMeter decimal.Decimal
	Available     bool
	Colors        []domain.ColorVariant
	Images        []string
}

// UpsertProductCommand creates or replaces a product. ID is ignored on create.
type UpsertProductCommand struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Available   bool
	Colors      []domain.ColorVariant
	Sizes       []domain.SizeVariant
	Images      []string
}

// CustomerIdentity is what the verified token says about the caller.
type CustomerIdentity struct {
	UID   string
	Name  string
	Email string
	Phone string
}

// UpdateCustomerCommand applies a partial profile update. Nil fields are left unchanged.
type UpdateCustomerCommand struct {
	Identity          CustomerIdentity
	Name              *string
	Phone             *string
	Email             *string
	PreferredLanguage *string
	Addresses         *[]domain.Address
}

// BuildInfo captures runtime metadata exposed via health endpoints.
type BuildInfo struct {
	Version   string
	StartedAt time.Time
}
