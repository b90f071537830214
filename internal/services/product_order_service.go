package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/textutil"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const productOrderKind = "product"

// ProductOrderServiceDeps bundles collaborators required to construct the product order service.
type ProductOrderServiceDeps struct {
	Orders       repositories.ProductOrderRepository
	Events       OrderEventPublisher
	Metrics      OrderMetrics
	Clock        func() time.Time
	IDGenerator  func() string
	OrderNumbers OrderNumberGenerator
	Logger       func(ctx context.Context, event string, fields map[string]any)
}

type productOrderService struct {
	orders      repositories.ProductOrderRepository
	metrics     OrderMetrics
	events      eventEmitter
	clock       func() time.Time
	newID       func() string
	orderNumber OrderNumberGenerator
	logger      func(context.Context, string, map[string]any)
}

var _ ProductOrderService = (*productOrderService)(nil)

// NewProductOrderService wires dependencies into a concrete ProductOrderService.
func NewProductOrderService(deps ProductOrderServiceDeps) (ProductOrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("product order service: order repository is required")
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	numbers := deps.OrderNumbers
	if numbers == nil {
		numbers = RandomOrderNumber
	}
	logger := defaultLogger(deps.Logger)
	metrics := defaultMetrics(deps.Metrics)

	return &productOrderService{
		orders:      deps.Orders,
		metrics:     metrics,
		events:      eventEmitter{publisher: deps.Events, metrics: metrics, logger: logger},
		clock:       defaultClock(deps.Clock),
		newID:       idGen,
		orderNumber: numbers,
		logger:      logger,
	}, nil
}

// CreateOrder prices the cart with the caller's prices and writes the order in one create.
// Every validation failure happens before the write.
func (s *productOrderService) CreateOrder(ctx context.Context, cmd CreateProductOrderCommand) (OrderReceipt[domain.ProductOrder], error) {
	if len(cmd.Items) == 0 {
		return OrderReceipt[domain.ProductOrder]{}, fmt.Errorf("%w: cart must contain at least one item", ErrOrderInvalidInput)
	}
	customer, address, method, err := normalizeOrderParty(cmd.Customer, cmd.Address, cmd.PaymentMethod)
	if err != nil {
		return OrderReceipt[domain.ProductOrder]{}, err
	}
	items, err := buildProductLines(cmd.Items)
	if err != nil {
		return OrderReceipt[domain.ProductOrder]{}, err
	}

	now := s.clock()
	order := domain.ProductOrder{
		ID:            s.newID(),
		OrderNumber:   s.orderNumber(productOrderNumberPrefix, now),
		Customer:      customer,
		Address:       address,
		Items:         items,
		Pricing:       domain.PriceProductItems(items),
		PaymentMethod: method,
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		s.logger(ctx, "product_order.create.failed", map[string]any{
			"orderNumber": order.OrderNumber,
			"error":       err.Error(),
		})
		return OrderReceipt[domain.ProductOrder]{}, orderErrorKinds.wrap(err)
	}

	s.metrics.OrderCreated(productOrderKind)
	s.logger(ctx, "product_order.created", map[string]any{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"items":       len(order.Items),
		"total":       order.Pricing.Total.StringFixed(2),
	})
	s.events.emit(ctx, OrderEvent{
		Type:          OrderEventCreated,
		Collection:    collectionProductOrders,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.Customer.AccountID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Total:         order.Pricing.Total.String(),
		OccurredAt:    now,
	})
	return OrderReceipt[domain.ProductOrder]{ID: order.ID, OrderNumber: order.OrderNumber, Order: order}, nil
}

func (s *productOrderService) GetOrder(ctx context.Context, orderID string) (domain.ProductOrder, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.ProductOrder{}, fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.ProductOrder{}, orderErrorKinds.wrap(err)
	}
	return order, nil
}

func (s *productOrderService) ListOrders(ctx context.Context, filter OrderListFilter) (domain.CursorPage[domain.ProductOrder], error) {
	repoFilter, err := toRepositoryOrderFilter(filter)
	if err != nil {
		return domain.CursorPage[domain.ProductOrder]{}, err
	}
	page, err := s.orders.List(ctx, repoFilter)
	if err != nil {
		return domain.CursorPage[domain.ProductOrder]{}, wrapListError(err)
	}
	return page, nil
}

func (s *productOrderService) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (domain.ProductOrder, error) {
	status, err := normalizeOrderStatus(cmd.Status)
	if err != nil {
		return domain.ProductOrder{}, err
	}
	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return domain.ProductOrder{}, err
	}

	now := s.clock()
	if err := s.orders.UpdateStatus(ctx, order.ID, status, now); err != nil {
		return domain.ProductOrder{}, orderErrorKinds.wrap(err)
	}
	previous := order.Status
	order.Status = status
	order.UpdatedAt = now

	s.metrics.StatusChanged(collectionProductOrders, "status")
	s.events.emit(ctx, OrderEvent{
		Type:          OrderEventStatusChanged,
		Collection:    collectionProductOrders,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.Customer.AccountID,
		Status:        string(status),
		PaymentStatus: string(order.PaymentStatus),
		PreviousValue: string(previous),
		ActorID:       cmd.ActorID,
		OccurredAt:    now,
	})
	return order, nil
}

// UpdatePaymentStatus overwrites paymentStatus independently of the fulfilment status.
func (s *productOrderService) UpdatePaymentStatus(ctx context.Context, cmd UpdatePaymentStatusCommand) (domain.ProductOrder, error) {
	status := domain.PaymentStatus(strings.ToLower(strings.TrimSpace(string(cmd.Status))))
	if !status.Valid() {
		return domain.ProductOrder{}, fmt.Errorf("%w: unknown payment status %q", ErrOrderInvalidInput, cmd.Status)
	}
	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return domain.ProductOrder{}, err
	}

	now := s.clock()
	if err := s.orders.UpdatePaymentStatus(ctx, order.ID, status, now); err != nil {
		return domain.ProductOrder{}, orderErrorKinds.wrap(err)
	}
	previous := order.PaymentStatus
	order.PaymentStatus = status
	order.UpdatedAt = now

	s.metrics.StatusChanged(collectionProductOrders, "paymentStatus")
	s.logger(ctx, "product_order.payment_status.updated", map[string]any{
		"orderId": order.ID,
		"from":    string(previous),
		"to":      string(status),
		"actorId": cmd.ActorID,
	})
	s.events.emit(ctx, OrderEvent{
		Type:          OrderEventPaymentStatusChanged,
		Collection:    collectionProductOrders,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.Customer.AccountID,
		Status:        string(order.Status),
		PaymentStatus: string(status),
		PreviousValue: string(previous),
		ActorID:       cmd.ActorID,
		OccurredAt:    now,
	})
	return order, nil
}

func buildProductLines(inputs []ProductLineInput) ([]domain.ProductLineItem, error) {
	items := make([]domain.ProductLineItem, 0, len(inputs))
	for i, in := range inputs {
		item := domain.ProductLineItem{
			ProductID:       strings.TrimSpace(in.ProductID),
			Name:            textutil.PlainText(in.Name, maxNameLength),
			Category:        strings.TrimSpace(in.Category),
			ImageURL:        strings.TrimSpace(in.ImageURL),
			Size:            strings.TrimSpace(in.Size),
			Color:           strings.TrimSpace(in.Color),
			PriceAtPurchase: in.Price,
			Quantity:        in.Quantity,
		}
		switch {
		case item.ProductID == "":
			return nil, fmt.Errorf("%w: items[%d].product_id is required", ErrOrderInvalidInput, i)
		case item.Name == "":
			return nil, fmt.Errorf("%w: items[%d].name is required", ErrOrderInvalidInput, i)
		case item.Quantity <= 0:
			return nil, fmt.Errorf("%w: items[%d].quantity must be positive", ErrOrderInvalidInput, i)
		case item.PriceAtPurchase.IsNegative():
			return nil, fmt.Errorf("%w: items[%d].price must not be negative", ErrOrderInvalidInput, i)
		}
		items = append(items, item)
	}
	return items, nil
}
