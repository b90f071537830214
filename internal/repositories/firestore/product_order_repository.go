package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	pfirestore "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const productOrderCollection = "productOrders"

// ProductOrderRepository stores ready-made product orders.
type ProductOrderRepository struct {
	coll *pfirestore.Collection[productOrderDocument]
}

var _ repositories.ProductOrderRepository = (*ProductOrderRepository)(nil)

// NewProductOrderRepository constructs a Firestore-backed product order repository.
func NewProductOrderRepository(provider *pfirestore.Provider) (*ProductOrderRepository, error) {
	if provider == nil {
		return nil, errors.New("product order repository requires firestore provider")
	}
	return &ProductOrderRepository{coll: pfirestore.NewCollection[productOrderDocument](provider, productOrderCollection)}, nil
}

func (r *ProductOrderRepository) Insert(ctx context.Context, order domain.ProductOrder) error {
	if r == nil || r.coll == nil {
		return errors.New("product order repository not initialised")
	}
	if strings.TrimSpace(order.ID) == "" {
		return errors.New("order id is required")
	}
	return r.coll.Create(ctx, order.ID, encodeProductOrder(order))
}

func (r *ProductOrderRepository) FindByID(ctx context.Context, orderID string) (domain.ProductOrder, error) {
	if r == nil || r.coll == nil {
		return domain.ProductOrder{}, errors.New("product order repository not initialised")
	}
	doc, err := r.coll.Get(ctx, orderID)
	if err != nil {
		return domain.ProductOrder{}, err
	}
	return decodeProductOrder(doc)
}

func (r *ProductOrderRepository) List(ctx context.Context, filter repositories.OrderListFilter) (domain.CursorPage[domain.ProductOrder], error) {
	if r == nil || r.coll == nil {
		return domain.CursorPage[domain.ProductOrder]{}, errors.New("product order repository not initialised")
	}
	return listPage(ctx, r.coll, filter.Pagination, orderFilter(filter),
		func(doc productOrderDocument) time.Time { return doc.CreatedAt },
		decodeProductOrder,
	)
}

func (r *ProductOrderRepository) ListAll(ctx context.Context) ([]domain.ProductOrder, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("product order repository not initialised")
	}
	docs, err := r.coll.Query(ctx, nil)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.ProductOrder, 0, len(docs))
	for _, doc := range docs {
		order, err := decodeProductOrder(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *ProductOrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) error {
	if r == nil || r.coll == nil {
		return errors.New("product order repository not initialised")
	}
	return r.coll.Update(ctx, orderID, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: updatedAt.UTC()},
	})
}

func (r *ProductOrderRepository) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus, updatedAt time.Time) error {
	if r == nil || r.coll == nil {
		return errors.New("product order repository not initialised")
	}
	return r.coll.Update(ctx, orderID, []firestore.Update{
		{Path: "paymentStatus", Value: string(status)},
		{Path: "updatedAt", Value: updatedAt.UTC()},
	})
}

type productOrderDocument struct {
	OrderNumber   string                 `firestore:"orderNumber"`
	Customer      customerInfoDocument   `firestore:"customer"`
	Address       addressDocument        `firestore:"address"`
	Items         []productLineDocument  `firestore:"items"`
	Pricing       productPricingDocument `firestore:"pricing"`
	PaymentMethod string                 `firestore:"paymentMethod"`
	PaymentStatus string                 `firestore:"paymentStatus"`
	Status        string                 `firestore:"status"`
	CreatedAt     time.Time              `firestore:"createdAt"`
	UpdatedAt     time.Time              `firestore:"updatedAt"`
}

// Optional snapshot fields are omitted rather than written as empty strings.
type productLineDocument struct {
	ProductID       string  `firestore:"productId"`
	Name            string  `firestore:"name"`
	Category        string  `firestore:"category,omitempty"`
	ImageURL        string  `firestore:"imageUrl,omitempty"`
	Size            string  `firestore:"size,omitempty"`
	Color           string  `firestore:"color,omitempty"`
	PriceAtPurchase float64 `firestore:"priceAtPurchase"`
	Quantity        int     `firestore:"quantity"`
	Subtotal        float64 `firestore:"subtotal"`
}

type productPricingDocument struct {
	Subtotal       float64 `firestore:"subtotal"`
	DeliveryCharge float64 `firestore:"deliveryCharge"`
	Total          float64 `firestore:"total"`
}

func encodeProductOrder(order domain.ProductOrder) productOrderDocument {
	items := make([]productLineDocument, len(order.Items))
	for i, item := range order.Items {
		items[i] = productLineDocument{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Category:        item.Category,
			ImageURL:        item.ImageURL,
			Size:            item.Size,
			Color:           item.Color,
			PriceAtPurchase: money(item.PriceAtPurchase),
			Quantity:        item.Quantity,
			Subtotal:        money(item.Subtotal),
		}
	}
	return productOrderDocument{
		OrderNumber: order.OrderNumber,
		Customer:    encodeCustomerInfo(order.Customer),
		Address:     encodeAddress(order.Address),
		Items:       items,
		Pricing: productPricingDocument{
			Subtotal:       money(order.Pricing.Subtotal),
			DeliveryCharge: money(order.Pricing.DeliveryCharge),
			Total:          money(order.Pricing.Total),
		},
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt.UTC(),
		UpdatedAt:     order.UpdatedAt.UTC(),
	}
}

func decodeProductOrder(doc pfirestore.Document[productOrderDocument]) (domain.ProductOrder, error) {
	data := doc.Data
	items := make([]domain.ProductLineItem, len(data.Items))
	for i, item := range data.Items {
		items[i] = domain.ProductLineItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Category:        item.Category,
			ImageURL:        item.ImageURL,
			Size:            item.Size,
			Color:           item.Color,
			PriceAtPurchase: amount(item.PriceAtPurchase),
			Quantity:        item.Quantity,
			Subtotal:        amount(item.Subtotal),
		}
	}
	return domain.ProductOrder{
		ID:          doc.ID,
		OrderNumber: data.OrderNumber,
		Customer:    decodeCustomerInfo(data.Customer),
		Address:     decodeAddress(data.Address),
		Items:       items,
		Pricing: domain.ProductOrderPricing{
			Subtotal:       amount(data.Pricing.Subtotal),
			DeliveryCharge: amount(data.Pricing.DeliveryCharge),
			Total:          amount(data.Pricing.Total),
		},
		PaymentMethod: domain.PaymentMethod(data.PaymentMethod),
		PaymentStatus: domain.PaymentStatus(data.PaymentStatus),
		Status:        domain.OrderStatus(data.Status),
		CreatedAt:     chooseTime(data.CreatedAt, doc.CreateTime),
		UpdatedAt:     chooseTime(data.UpdatedAt, doc.UpdateTime),
	}, nil
}
