package repositories

import (
	"context"
	"time"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
)

// RepositoryError wraps persistence failures with the classification services map to their own errors.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// OrderListFilter narrows order listings. Empty fields do not filter.
type OrderListFilter struct {
	CustomerID string
	Status     domain.OrderStatus
	Pagination domain.Pagination
}

// FabricOrderRepository persists the orders collection.
type FabricOrderRepository interface {
	Insert(ctx context.Context, order domain.FabricOrder) error
	FindByID(ctx context.Context, orderID string) (domain.FabricOrder, error)
	List(ctx context.Context, filter OrderListFilter) (domain.CursorPage[domain.FabricOrder], error)
	ListAll(ctx context.Context) ([]domain.FabricOrder, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) error
}

// ProductOrderRepository persists the productOrders collection.
type ProductOrderRepository interface {
	Insert(ctx context.Context, order domain.ProductOrder) error
	FindByID(ctx context.Context, orderID string) (domain.ProductOrder, error)
	List(ctx context.Context, filter OrderListFilter) (domain.CursorPage[domain.ProductOrder], error)
	ListAll(ctx context.Context) ([]domain.ProductOrder, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) error
	UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus, updatedAt time.Time) error
}

// CatalogListFilter narrows catalog listings.
type CatalogListFilter struct {
	Category      string
	AvailableOnly bool
}

// FabricRepository persists the fabrics collection.
type FabricRepository interface {
	Insert(ctx context.Context, fabric domain.Fabric) error
	Update(ctx context.Context, fabric domain.Fabric) error
	Delete(ctx context.Context, fabricID string) error
	FindByID(ctx context.Context, fabricID string) (domain.Fabric, error)
	List(ctx context.Context, filter CatalogListFilter) ([]domain.Fabric, error)
}

// ProductRepository persists the products collection.
type ProductRepository interface {
	Insert(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, productID string) error
	FindByID(ctx context.Context, productID string) (domain.Product, error)
	List(ctx context.Context, filter CatalogListFilter) ([]domain.Product, error)
}

// CustomerRepository persists customers/{uid}.
type CustomerRepository interface {
	FindByID(ctx context.Context, uid string) (domain.Customer, error)
	Save(ctx context.Context, customer domain.Customer) error
}

// HealthRepository probes backing services for readiness.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
