package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	pfirestore "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const fabricOrderCollection = "orders"

// FabricOrderRepository stores tailoring and fabric-only orders in the orders collection.
type FabricOrderRepository struct {
	coll *pfirestore.Collection[fabricOrderDocument]
}

var _ repositories.FabricOrderRepository = (*FabricOrderRepository)(nil)

// NewFabricOrderRepository constructs a Firestore-backed fabric order repository.
func NewFabricOrderRepository(provider *pfirestore.Provider) (*FabricOrderRepository, error) {
	if provider == nil {
		return nil, errors.New("fabric order repository requires firestore provider")
	}
	return &FabricOrderRepository{coll: pfirestore.NewCollection[fabricOrderDocument](provider, fabricOrderCollection)}, nil
}

// Insert creates the order document. The write is a single create so a failure leaves nothing behind.
func (r *FabricOrderRepository) Insert(ctx context.Context, order domain.FabricOrder) error {
	if r == nil || r.coll == nil {
		return errors.New("fabric order repository not initialised")
	}
	if strings.TrimSpace(order.ID) == "" {
		return errors.New("order id is required")
	}
	return r.coll.Create(ctx, order.ID, encodeFabricOrder(order))
}

func (r *FabricOrderRepository) FindByID(ctx context.Context, orderID string) (domain.FabricOrder, error) {
	if r == nil || r.coll == nil {
		return domain.FabricOrder{}, errors.New("fabric order repository not initialised")
	}
	doc, err := r.coll.Get(ctx, orderID)
	if err != nil {
		return domain.FabricOrder{}, err
	}
	return decodeFabricOrder(doc)
}

// List pages through orders newest first, optionally narrowed to one customer or status.
func (r *FabricOrderRepository) List(ctx context.Context, filter repositories.OrderListFilter) (domain.CursorPage[domain.FabricOrder], error) {
	if r == nil || r.coll == nil {
		return domain.CursorPage[domain.FabricOrder]{}, errors.New("fabric order repository not initialised")
	}
	return listPage(ctx, r.coll, filter.Pagination, orderFilter(filter),
		func(doc fabricOrderDocument) time.Time { return doc.CreatedAt },
		decodeFabricOrder,
	)
}

// ListAll loads every order. Statistics are computed from the full collection.
func (r *FabricOrderRepository) ListAll(ctx context.Context) ([]domain.FabricOrder, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("fabric order repository not initialised")
	}
	docs, err := r.coll.Query(ctx, nil)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.FabricOrder, 0, len(docs))
	for _, doc := range docs {
		order, err := decodeFabricOrder(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *FabricOrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) error {
	if r == nil || r.coll == nil {
		return errors.New("fabric order repository not initialised")
	}
	return r.coll.Update(ctx, orderID, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: updatedAt.UTC()},
	})
}

func orderFilter(filter repositories.OrderListFilter) pfirestore.QueryBuilder {
	customerID := strings.TrimSpace(filter.CustomerID)
	status := strings.TrimSpace(string(filter.Status))
	if customerID == "" && status == "" {
		return nil
	}
	return func(q firestore.Query) firestore.Query {
		if customerID != "" {
			q = q.Where("customer.accountId", "==", customerID)
		}
		if status != "" {
			q = q.Where("status", "==", status)
		}
		return q
	}
}

type fabricOrderDocument struct {
	OrderNumber   string                  `firestore:"orderNumber"`
	Kind          string                  `firestore:"kind"`
	Customer      customerInfoDocument    `firestore:"customer"`
	Address       addressDocument         `firestore:"address"`
	Service       serviceDocument         `firestore:"service"`
	Fabric        fabricSelectionDocument `firestore:"fabric"`
	Customization customizationDocument   `firestore:"customization"`
	Measurements  []measurementDocument   `firestore:"measurements,omitempty"`
	Pricing       fabricPricingDocument   `firestore:"pricing"`
	PaymentMethod string                  `firestore:"paymentMethod"`
	Status        string                  `firestore:"status"`
	CreatedAt     time.Time               `firestore:"createdAt"`
	UpdatedAt     time.Time               `firestore:"updatedAt"`
}

type serviceDocument struct {
	ID    string  `firestore:"id"`
	Name  string  `firestore:"name"`
	Price float64 `firestore:"price"`
}

type fabricSelectionDocument struct {
	FabricID      string  `firestore:"fabricId,omitempty"`
	Name          string  `firestore:"name"`
	ColorName     string  `firestore:"colorName"`
	ColorHex      string  `firestore:"colorHex"`
	PricePerMeter float64 `firestore:"pricePerMeter"`
	Quantity      float64 `firestore:"quantity"`
	Subtotal      float64 `firestore:"subtotal"`
	OwnFabric     bool    `firestore:"ownFabric"`
}

type customizationDocument struct {
	CollarStyle       string `firestore:"collarStyle,omitempty"`
	SleeveStyle       string `firestore:"sleeveStyle,omitempty"`
	ButtonStyle       string `firestore:"buttonStyle,omitempty"`
	PocketStyle       string `firestore:"pocketStyle,omitempty"`
	Fit               string `firestore:"fit,omitempty"`
	Notes             string `firestore:"notes,omitempty"`
	ReferenceImageURL string `firestore:"referenceImageUrl,omitempty"`
	ImageNote         string `firestore:"imageNote,omitempty"`
}

type measurementDocument struct {
	Garment string             `firestore:"garment"`
	Values  map[string]float64 `firestore:"values"`
}

type fabricPricingDocument struct {
	FabricCost    float64 `firestore:"fabricCost"`
	TailoringCost float64 `firestore:"tailoringCost"`
	TotalCost     float64 `firestore:"totalCost"`
}

func encodeFabricOrder(order domain.FabricOrder) fabricOrderDocument {
	doc := fabricOrderDocument{
		OrderNumber: order.OrderNumber,
		Kind:        string(order.Kind),
		Customer:    encodeCustomerInfo(order.Customer),
		Address:     encodeAddress(order.Address),
		Service: serviceDocument{
			ID:    order.Service.ID,
			Name:  order.Service.Name,
			Price: money(order.Service.Price),
		},
		Fabric: fabricSelectionDocument{
			FabricID:      order.Fabric.FabricID,
			Name:          order.Fabric.Name,
			ColorName:     order.Fabric.ColorName,
			ColorHex:      order.Fabric.ColorHex,
			PricePerMeter: money(order.Fabric.PricePerMeter),
			Quantity:      money(order.Fabric.Quantity),
			Subtotal:      money(order.Fabric.Subtotal),
			OwnFabric:     order.Fabric.OwnFabric,
		},
		Customization: customizationDocument(order.Customization),
		Pricing: fabricPricingDocument{
			FabricCost:    money(order.Pricing.FabricCost),
			TailoringCost: money(order.Pricing.TailoringCost),
			TotalCost:     money(order.Pricing.TotalCost),
		},
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt.UTC(),
		UpdatedAt:     order.UpdatedAt.UTC(),
	}
	for _, set := range order.Measurements {
		if set == nil {
			continue
		}
		doc.Measurements = append(doc.Measurements, measurementDocument{
			Garment: string(set.Garment()),
			Values:  set.Values(),
		})
	}
	return doc
}

func decodeFabricOrder(doc pfirestore.Document[fabricOrderDocument]) (domain.FabricOrder, error) {
	data := doc.Data
	order := domain.FabricOrder{
		ID:          doc.ID,
		OrderNumber: data.OrderNumber,
		Kind:        domain.FabricOrderKind(data.Kind),
		Customer:    decodeCustomerInfo(data.Customer),
		Address:     decodeAddress(data.Address),
		Service: domain.ServiceSelection{
			ID:    data.Service.ID,
			Name:  data.Service.Name,
			Price: amount(data.Service.Price),
		},
		Fabric: domain.FabricSelection{
			FabricID:      data.Fabric.FabricID,
			Name:          data.Fabric.Name,
			ColorName:     data.Fabric.ColorName,
			ColorHex:      data.Fabric.ColorHex,
			PricePerMeter: amount(data.Fabric.PricePerMeter),
			Quantity:      amount(data.Fabric.Quantity),
			Subtotal:      amount(data.Fabric.Subtotal),
			OwnFabric:     data.Fabric.OwnFabric,
		},
		Customization: domain.Customization(data.Customization),
		Pricing: domain.FabricOrderPricing{
			FabricCost:    amount(data.Pricing.FabricCost),
			TailoringCost: amount(data.Pricing.TailoringCost),
			TotalCost:     amount(data.Pricing.TotalCost),
		},
		PaymentMethod: domain.PaymentMethod(data.PaymentMethod),
		Status:        domain.OrderStatus(data.Status),
		CreatedAt:     chooseTime(data.CreatedAt, doc.CreateTime),
		UpdatedAt:     chooseTime(data.UpdatedAt, doc.UpdateTime),
	}
	for _, set := range data.Measurements {
		m, err := domain.RestoreMeasurements(domain.GarmentType(set.Garment), set.Values)
		if err != nil {
			return domain.FabricOrder{}, fmt.Errorf("decode order %s measurements: %w", doc.ID, err)
		}
		order.Measurements = append(order.Measurements, m)
	}
	return order, nil
}

func chooseTime(primary, fallback time.Time) time.Time {
	if !primary.IsZero() {
		return primary.UTC()
	}
	return fallback.UTC()
}
