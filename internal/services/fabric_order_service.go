package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/storage"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/textutil"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const (
	fabricOnlyServiceID   = "fabric-only"
	fabricOnlyServiceName = "Fabric Only"
	ownFabricName         = "Customer's own fabric"
	notApplicable         = "N/A"
)

// ImageUploader stores an object and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, object, contentType string, data []byte) (string, error)
}

// FabricOrderServiceDeps bundles collaborators required to construct the fabric order service.
type FabricOrderServiceDeps struct {
	Orders       repositories.FabricOrderRepository
	Fabrics      repositories.FabricRepository
	Images       ImageUploader
	ImagePaths   storage.PathBuilder
	Events       OrderEventPublisher
	Metrics      OrderMetrics
	Clock        func() time.Time
	IDGenerator  func() string
	OrderNumbers OrderNumberGenerator
	Logger       func(ctx context.Context, event string, fields map[string]any)
}

type fabricOrderService struct {
	orders      repositories.FabricOrderRepository
	fabrics     repositories.FabricRepository
	images      ImageUploader
	paths       storage.PathBuilder
	metrics     OrderMetrics
	events      eventEmitter
	clock       func() time.Time
	newID       func() string
	orderNumber OrderNumberGenerator
	logger      func(context.Context, string, map[string]any)
}

var _ FabricOrderService = (*fabricOrderService)(nil)

// NewFabricOrderService wires dependencies into a concrete FabricOrderService.
func NewFabricOrderService(deps FabricOrderServiceDeps) (FabricOrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("fabric order service: order repository is required")
	}
	if deps.Fabrics == nil {
		return nil, errors.New("fabric order service: fabric repository is required")
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	numbers := deps.OrderNumbers
	if numbers == nil {
		numbers = RandomOrderNumber
	}
	paths := deps.ImagePaths
	if paths == (storage.PathBuilder{}) {
		paths = storage.NewPathBuilder("")
	}
	logger := defaultLogger(deps.Logger)
	metrics := defaultMetrics(deps.Metrics)

	return &fabricOrderService{
		orders:      deps.Orders,
		fabrics:     deps.Fabrics,
		images:      deps.Images,
		paths:       paths,
		metrics:     metrics,
		events:      eventEmitter{publisher: deps.Events, metrics: metrics, logger: logger},
		clock:       defaultClock(deps.Clock),
		newID:       idGen,
		orderNumber: numbers,
		logger:      logger,
	}, nil
}

func (s *fabricOrderService) CreateTailoringOrder(ctx context.Context, cmd CreateTailoringOrderCommand) (OrderReceipt[domain.FabricOrder], error) {
	customer, address, method, err := normalizeOrderParty(cmd.Customer, cmd.Address, cmd.PaymentMethod)
	if err != nil {
		return OrderReceipt[domain.FabricOrder]{}, err
	}
	if err := domain.ValidateMeasurementSets(cmd.Measurements); err != nil {
		return OrderReceipt[domain.FabricOrder]{}, fmt.Errorf("%w: %v", ErrOrderInvalidInput, err)
	}

	serviceID := strings.TrimSpace(cmd.ServiceID)
	service, ok := domain.LookupTailoringService(serviceID)
	if !ok {
		return OrderReceipt[domain.FabricOrder]{}, fmt.Errorf("%w: unknown service %q", ErrOrderLookup, serviceID)
	}

	var selection domain.FabricSelection
	if service.ID == domain.StitchingOnlyServiceID {
		selection = domain.FabricSelection{Name: ownFabricName, OwnFabric: true}
	} else {
		selection, err = s.selectFabric(ctx, cmd.FabricID, cmd.ColorIndex, cmd.Quantity)
		if err != nil {
			return OrderReceipt[domain.FabricOrder]{}, err
		}
	}

	now := s.clock()
	order := domain.FabricOrder{
		ID:          s.newID(),
		OrderNumber: s.orderNumber(fabricOrderNumberPrefix, now),
		Kind:        domain.FabricOrderKindTailoring,
		Customer:    customer,
		Address:     address,
		Service: domain.ServiceSelection{
			ID:    service.ID,
			Name:  service.Name,
			Price: service.Price,
		},
		Fabric:        selection,
		Customization: cleanCustomization(cmd.Customization),
		Measurements:  compactMeasurements(cmd.Measurements),
		Pricing:       domain.PriceFabricOrder(selection.Subtotal, service.Price),
		PaymentMethod: method,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if payload := strings.TrimSpace(cmd.Customization.ImageBase64); payload != "" {
		order.Customization.ReferenceImageURL, order.Customization.ImageNote = s.uploadReferenceImage(ctx, order.OrderNumber, payload)
	}

	return s.persist(ctx, order)
}

func (s *fabricOrderService) CreateFabricOnlyOrder(ctx context.Context, cmd CreateFabricOnlyOrderCommand) (OrderReceipt[domain.FabricOrder], error) {
	customer, address, method, err := normalizeOrderParty(cmd.Customer, cmd.Address, cmd.PaymentMethod)
	if err != nil {
		return OrderReceipt[domain.FabricOrder]{}, err
	}
	selection, err := s.selectFabric(ctx, cmd.FabricID, cmd.ColorIndex, cmd.Quantity)
	if err != nil {
		return OrderReceipt[domain.FabricOrder]{}, err
	}

	now := s.clock()
	order := domain.FabricOrder{
		ID:          s.newID(),
		OrderNumber: s.orderNumber(fabricOrderNumberPrefix, now),
		Kind:        domain.FabricOrderKindFabricOnly,
		Customer:    customer,
		Address:     address,
		Service: domain.ServiceSelection{
			ID:    fabricOnlyServiceID,
			Name:  fabricOnlyServiceName,
			Price: decimal.Zero,
		},
		Fabric: selection,
		Customization: domain.Customization{
			CollarStyle: notApplicable,
			SleeveStyle: notApplicable,
			ButtonStyle: notApplicable,
			PocketStyle: notApplicable,
			Fit:         notApplicable,
			Notes:       "Fabric only purchase",
		},
		Pricing:       domain.PriceFabricOrder(selection.Subtotal, decimal.Zero),
		PaymentMethod: method,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.persist(ctx, order)
}

func (s *fabricOrderService) GetOrder(ctx context.Context, orderID string) (domain.FabricOrder, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.FabricOrder{}, fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.FabricOrder{}, orderErrorKinds.wrap(err)
	}
	return order, nil
}

func (s *fabricOrderService) ListOrders(ctx context.Context, filter OrderListFilter) (domain.CursorPage[domain.FabricOrder], error) {
	repoFilter, err := toRepositoryOrderFilter(filter)
	if err != nil {
		return domain.CursorPage[domain.FabricOrder]{}, err
	}
	page, err := s.orders.List(ctx, repoFilter)
	if err != nil {
		return domain.CursorPage[domain.FabricOrder]{}, wrapListError(err)
	}
	return page, nil
}

// UpdateStatus overwrites status and updatedAt. Any known status may follow any other.
func (s *fabricOrderService) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (domain.FabricOrder, error) {
	status, err := normalizeOrderStatus(cmd.Status)
	if err != nil {
		return domain.FabricOrder{}, err
	}
	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return domain.FabricOrder{}, err
	}

	now := s.clock()
	if err := s.orders.UpdateStatus(ctx, order.ID, status, now); err != nil {
		return domain.FabricOrder{}, orderErrorKinds.wrap(err)
	}
	previous := order.Status
	order.Status = status
	order.UpdatedAt = now

	s.metrics.StatusChanged(collectionFabricOrders, "status")
	s.logger(ctx, "order.status.updated", map[string]any{
		"orderId":    order.ID,
		"from":       string(previous),
		"to":         string(status),
		"actorId":    cmd.ActorID,
		"collection": collectionFabricOrders,
	})
	s.events.emit(ctx, OrderEvent{
		Type:          OrderEventStatusChanged,
		Collection:    collectionFabricOrders,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.Customer.AccountID,
		Status:        string(status),
		PreviousValue: string(previous),
		ActorID:       cmd.ActorID,
		OccurredAt:    now,
	})
	return order, nil
}

// selectFabric resolves the fabric and color and prices the requested length.
func (s *fabricOrderService) selectFabric(ctx context.Context, fabricID string, colorIndex int, quantity decimal.Decimal) (domain.FabricSelection, error) {
	fabricID = strings.TrimSpace(fabricID)
	if fabricID == "" {
		return domain.FabricSelection{}, fmt.Errorf("%w: fabric id is required", ErrOrderInvalidInput)
	}
	if !quantity.IsPositive() {
		return domain.FabricSelection{}, fmt.Errorf("%w: quantity must be positive", ErrOrderInvalidInput)
	}

	fabric, err := s.fabrics.FindByID(ctx, fabricID)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.FabricSelection{}, fmt.Errorf("%w: unknown fabric %q", ErrOrderLookup, fabricID)
		}
		return domain.FabricSelection{}, orderErrorKinds.wrap(err)
	}

	selection := domain.FabricSelection{
		FabricID:      fabric.ID,
		Name:          fabric.Name,
		PricePerMeter: fabric.PricePerMeter,
		Quantity:      quantity,
		Subtotal:      domain.FabricCost(fabric.PricePerMeter, quantity),
	}
	if colorIndex >= 0 && colorIndex < len(fabric.Colors) {
		selection.ColorName = fabric.Colors[colorIndex].Name
		selection.ColorHex = fabric.Colors[colorIndex].Hex
	}
	return selection, nil
}

// uploadReferenceImage never fails the order: any problem yields the "upload failed" note.
func (s *fabricOrderService) uploadReferenceImage(ctx context.Context, orderNumber, payload string) (string, string) {
	fail := func(stage string, err error) (string, string) {
		s.metrics.ImageUploadFailed()
		s.logger(ctx, "order.image.upload_failed", map[string]any{
			"orderNumber": orderNumber,
			"stage":       stage,
			"error":       err.Error(),
		})
		return "", imageUploadFailed
	}

	if s.images == nil {
		return fail("config", errors.New("image storage not configured"))
	}
	data, contentType, err := storage.DecodeImage(payload)
	if err != nil {
		return fail("decode", err)
	}
	object, err := s.paths.OrderImage(orderNumber)
	if err != nil {
		return fail("path", err)
	}
	url, err := s.images.Upload(ctx, object, contentType, data)
	if err != nil {
		return fail("upload", err)
	}
	return url, ""
}

func (s *fabricOrderService) persist(ctx context.Context, order domain.FabricOrder) (OrderReceipt[domain.FabricOrder], error) {
	if err := s.orders.Insert(ctx, order); err != nil {
		s.logger(ctx, "order.create.failed", map[string]any{
			"orderNumber": order.OrderNumber,
			"error":       err.Error(),
		})
		return OrderReceipt[domain.FabricOrder]{}, orderErrorKinds.wrap(err)
	}

	s.metrics.OrderCreated(string(order.Kind))
	s.logger(ctx, "order.created", map[string]any{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"kind":        string(order.Kind),
		"total":       order.Pricing.TotalCost.StringFixed(2),
	})
	s.events.emit(ctx, OrderEvent{
		Type:        OrderEventCreated,
		Collection:  collectionFabricOrders,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.Customer.AccountID,
		Status:      string(order.Status),
		Total:       order.Pricing.TotalCost.String(),
		OccurredAt:  order.CreatedAt,
	})
	return OrderReceipt[domain.FabricOrder]{ID: order.ID, OrderNumber: order.OrderNumber, Order: order}, nil
}

func normalizeOrderParty(info domain.CustomerInfo, addr domain.Address, method domain.PaymentMethod) (domain.CustomerInfo, domain.Address, domain.PaymentMethod, error) {
	customer, err := normalizeCustomer(info)
	if err != nil {
		return domain.CustomerInfo{}, domain.Address{}, "", err
	}
	address, err := normalizeAddress(addr)
	if err != nil {
		return domain.CustomerInfo{}, domain.Address{}, "", err
	}
	payment, err := normalizePaymentMethod(method)
	if err != nil {
		return domain.CustomerInfo{}, domain.Address{}, "", err
	}
	return customer, address, payment, nil
}

func cleanCustomization(in CustomizationInput) domain.Customization {
	return domain.Customization{
		CollarStyle: textutil.PlainText(in.CollarStyle, maxStyleLength),
		SleeveStyle: textutil.PlainText(in.SleeveStyle, maxStyleLength),
		ButtonStyle: textutil.PlainText(in.ButtonStyle, maxStyleLength),
		PocketStyle: textutil.PlainText(in.PocketStyle, maxStyleLength),
		Fit:         textutil.PlainText(in.Fit, maxStyleLength),
		Notes:       textutil.PlainText(in.Notes, maxNotesLength),
	}
}

func compactMeasurements(sets []domain.Measurements) []domain.Measurements {
	var out []domain.Measurements
	for _, set := range sets {
		if set != nil {
			out = append(out, set)
		}
	}
	return out
}

func toRepositoryOrderFilter(filter OrderListFilter) (repositories.OrderListFilter, error) {
	out := repositories.OrderListFilter{
		CustomerID: strings.TrimSpace(filter.CustomerID),
		Pagination: filter.Pagination,
	}
	if raw := strings.TrimSpace(string(filter.Status)); raw != "" {
		status, err := normalizeOrderStatus(domain.OrderStatus(raw))
		if err != nil {
			return repositories.OrderListFilter{}, err
		}
		out.Status = status
	}
	return out, nil
}
