package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pagination defines standard cursor-based paging inputs for list operations.
type Pagination struct {
	PageSize  int
	PageToken string
}

// CursorPage packages list results with an encoded next token.
type CursorPage[T any] struct {
	Items         []T
	NextPageToken string
}

// OrderStatus is the fulfilment state shared by fabric and product orders.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every known status in dashboard display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	for _, candidate := range OrderStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// PaymentStatus tracks settlement of a product order independently of its fulfilment status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Valid reports whether the payment status is known.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

// PaymentMethod is the label the customer picked at checkout. No payment is captured online.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cod"
	PaymentMethodUPI            PaymentMethod = "upi"
	PaymentMethodCard           PaymentMethod = "card"
)

// Valid reports whether the payment method is accepted.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCashOnDelivery, PaymentMethodUPI, PaymentMethodCard:
		return true
	default:
		return false
	}
}

// CustomerInfo identifies who placed an order. AccountID links to customers/{uid} when signed in.
type CustomerInfo struct {
	Name      string
	Phone     string
	Email     string
	AccountID string
}

// Address is a delivery address.
type Address struct {
	Line1    string
	Line2    string
	Landmark string
	City     string
	State    string
	Pincode  string
}

// ServiceSelection snapshots the tailoring service chosen for a fabric order.
type ServiceSelection struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// FabricSelection snapshots the fabric purchased with an order. OwnFabric marks the
// placeholder used when the customer supplies the cloth.
type FabricSelection struct {
	FabricID      string
	Name          string
	ColorName     string
	ColorHex      string
	PricePerMeter decimal.Decimal
	Quantity      decimal.Decimal
	Subtotal      decimal.Decimal
	OwnFabric     bool
}

// Customization collects style choices and the optional reference image.
type Customization struct {
	CollarStyle       string
	SleeveStyle       string
	ButtonStyle       string
	PocketStyle       string
	Fit               string
	Notes             string
	ReferenceImageURL string
	ImageNote         string
}

// FabricOrderPricing is the cost breakdown of a fabric order.
// TotalCost always equals FabricCost + TailoringCost at creation time.
type FabricOrderPricing struct {
	FabricCost    decimal.Decimal
	TailoringCost decimal.Decimal
	TotalCost     decimal.Decimal
}

// FabricOrderKind distinguishes tailoring orders from fabric-only purchases.
type FabricOrderKind string

const (
	FabricOrderKindTailoring  FabricOrderKind = "tailoring"
	FabricOrderKindFabricOnly FabricOrderKind = "fabric_only"
)

// FabricOrder is a document in the orders collection.
type FabricOrder struct {
	ID            string
	OrderNumber   string
	Kind          FabricOrderKind
	Customer      CustomerInfo
	Address       Address
	Service       ServiceSelection
	Fabric        FabricSelection
	Customization Customization
	Measurements  []Measurements
	Pricing       FabricOrderPricing
	PaymentMethod PaymentMethod
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductLineItem is a point-in-time snapshot of a purchased product.
type ProductLineItem struct {
	ProductID       string
	Name            string
	Category        string
	ImageURL        string
	Size            string
	Color           string
	PriceAtPurchase decimal.Decimal
	Quantity        int
	Subtotal        decimal.Decimal
}

// ProductOrderPricing is the cost breakdown of a product order.
type ProductOrderPricing struct {
	Subtotal       decimal.Decimal
	DeliveryCharge decimal.Decimal
	Total          decimal.Decimal
}

// ProductOrder is a document in the productOrders collection.
type ProductOrder struct {
	ID            string
	OrderNumber   string
	Customer      CustomerInfo
	Address       Address
	Items         []ProductLineItem
	Pricing       ProductOrderPricing
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ColorVariant is a named color option carrying its own stock count.
type ColorVariant struct {
	Name     string
	Hex      string
	ImageURL string
	Stock    int
}

// SizeVariant is a size option carrying its own stock count.
type SizeVariant struct {
	Size  string
	Stock int
}

// Fabric is a catalog entry sold by the meter.
type Fabric struct {
	ID            string
	Name          string
	Description   string
	Material      string
	Category      string
	PricePerMeter decimal.Decimal
	Available     bool
	Colors        []ColorVariant
	Images        []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Product is a ready-made catalog item.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Available   bool
	Colors      []ColorVariant
	Sizes       []SizeVariant
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Customer is the profile stored at customers/{uid}. Credentials live with the identity provider.
type Customer struct {
	UID               string
	Name              string
	Phone             string
	Email             string
	PreferredLanguage string
	Addresses         []Address
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StatusStats summarises one order collection.
type StatusStats struct {
	TotalOrders int
	ByStatus    map[OrderStatus]int
	Revenue     decimal.Decimal
}

// DashboardStats aggregates both order collections for the admin dashboard.
type DashboardStats struct {
	FabricOrders  StatusStats
	ProductOrders StatusStats
	TotalOrders   int
	TotalRevenue  decimal.Decimal
	GeneratedAt   time.Time
}
