package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

type stubRepoError struct {
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e stubRepoError) Error() string       { return "stub repository error" }
func (e stubRepoError) IsNotFound() bool    { return e.notFound }
func (e stubRepoError) IsConflict() bool    { return e.conflict }
func (e stubRepoError) IsUnavailable() bool { return e.unavailable }

var (
	errRepoNotFound    = stubRepoError{notFound: true}
	errRepoUnavailable = stubRepoError{unavailable: true}
)

type stubFabricOrderRepository struct {
	mu        sync.Mutex
	inserted  []domain.FabricOrder
	byID      map[string]domain.FabricOrder
	all       []domain.FabricOrder
	insertErr error
	listAll   error
	lastList  repositories.OrderListFilter
	updates   []domain.OrderStatus
}

func (s *stubFabricOrderRepository) Insert(_ context.Context, order domain.FabricOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, order)
	if s.byID == nil {
		s.byID = map[string]domain.FabricOrder{}
	}
	s.byID[order.ID] = order
	return nil
}

func (s *stubFabricOrderRepository) FindByID(_ context.Context, id string) (domain.FabricOrder, error) {
	order, ok := s.byID[id]
	if !ok {
		return domain.FabricOrder{}, errRepoNotFound
	}
	return order, nil
}

func (s *stubFabricOrderRepository) List(_ context.Context, filter repositories.OrderListFilter) (domain.CursorPage[domain.FabricOrder], error) {
	s.lastList = filter
	return domain.CursorPage[domain.FabricOrder]{Items: s.all}, nil
}

func (s *stubFabricOrderRepository) ListAll(context.Context) ([]domain.FabricOrder, error) {
	return s.all, s.listAll
}

func (s *stubFabricOrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error {
	order, ok := s.byID[id]
	if !ok {
		return errRepoNotFound
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	s.byID[id] = order
	s.updates = append(s.updates, status)
	return nil
}

type stubProductOrderRepository struct {
	inserted       []domain.ProductOrder
	byID           map[string]domain.ProductOrder
	all            []domain.ProductOrder
	insertErr      error
	listAll        error
	paymentUpdates []domain.PaymentStatus
}

func (s *stubProductOrderRepository) Insert(_ context.Context, order domain.ProductOrder) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, order)
	if s.byID == nil {
		s.byID = map[string]domain.ProductOrder{}
	}
	s.byID[order.ID] = order
	return nil
}

func (s *stubProductOrderRepository) FindByID(_ context.Context, id string) (domain.ProductOrder, error) {
	order, ok := s.byID[id]
	if !ok {
		return domain.ProductOrder{}, errRepoNotFound
	}
	return order, nil
}

func (s *stubProductOrderRepository) List(context.Context, repositories.OrderListFilter) (domain.CursorPage[domain.ProductOrder], error) {
	return domain.CursorPage[domain.ProductOrder]{Items: s.all}, nil
}

func (s *stubProductOrderRepository) ListAll(context.Context) ([]domain.ProductOrder, error) {
	return s.all, s.listAll
}

func (s *stubProductOrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error {
	order, ok := s.byID[id]
	if !ok {
		return errRepoNotFound
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	s.byID[id] = order
	return nil
}

func (s *stubProductOrderRepository) UpdatePaymentStatus(_ context.Context, id string, status domain.PaymentStatus, updatedAt time.Time) error {
	order, ok := s.byID[id]
	if !ok {
		return errRepoNotFound
	}
	order.PaymentStatus = status
	order.UpdatedAt = updatedAt
	s.byID[id] = order
	s.paymentUpdates = append(s.paymentUpdates, status)
	return nil
}

type stubFabricRepository struct {
	byID    map[string]domain.Fabric
	findErr error
	listed  []domain.Fabric
	lists   int
	deleted []string
}

func (s *stubFabricRepository) Insert(_ context.Context, fabric domain.Fabric) error {
	if s.byID == nil {
		s.byID = map[string]domain.Fabric{}
	}
	s.byID[fabric.ID] = fabric
	return nil
}

func (s *stubFabricRepository) Update(ctx context.Context, fabric domain.Fabric) error {
	if _, ok := s.byID[fabric.ID]; !ok {
		return errRepoNotFound
	}
	return s.Insert(ctx, fabric)
}

func (s *stubFabricRepository) Delete(_ context.Context, id string) error {
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubFabricRepository) FindByID(_ context.Context, id string) (domain.Fabric, error) {
	if s.findErr != nil {
		return domain.Fabric{}, s.findErr
	}
	fabric, ok := s.byID[id]
	if !ok {
		return domain.Fabric{}, errRepoNotFound
	}
	return fabric, nil
}

func (s *stubFabricRepository) List(context.Context, repositories.CatalogListFilter) ([]domain.Fabric, error) {
	s.lists++
	return s.listed, nil
}

type stubProductRepository struct {
	byID map[string]domain.Product
}

func (s *stubProductRepository) Insert(_ context.Context, product domain.Product) error {
	if s.byID == nil {
		s.byID = map[string]domain.Product{}
	}
	s.byID[product.ID] = product
	return nil
}

func (s *stubProductRepository) Update(ctx context.Context, product domain.Product) error {
	if _, ok := s.byID[product.ID]; !ok {
		return errRepoNotFound
	}
	return s.Insert(ctx, product)
}

func (s *stubProductRepository) Delete(_ context.Context, id string) error {
	delete(s.byID, id)
	return nil
}

func (s *stubProductRepository) FindByID(_ context.Context, id string) (domain.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return domain.Product{}, errRepoNotFound
	}
	return product, nil
}

func (s *stubProductRepository) List(context.Context, repositories.CatalogListFilter) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.byID))
	for _, product := range s.byID {
		out = append(out, product)
	}
	return out, nil
}

type stubCustomerRepository struct {
	byUID   map[string]domain.Customer
	findErr error
	saves   int
}

func (s *stubCustomerRepository) FindByID(_ context.Context, uid string) (domain.Customer, error) {
	if s.findErr != nil {
		return domain.Customer{}, s.findErr
	}
	customer, ok := s.byUID[uid]
	if !ok {
		return domain.Customer{}, errRepoNotFound
	}
	return customer, nil
}

func (s *stubCustomerRepository) Save(_ context.Context, customer domain.Customer) error {
	if s.byUID == nil {
		s.byUID = map[string]domain.Customer{}
	}
	s.byUID[customer.UID] = customer
	s.saves++
	return nil
}

type stubUploader struct {
	objects     []string
	contentType string
	err         error
}

func (s *stubUploader) Upload(_ context.Context, object, contentType string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.objects = append(s.objects, object)
	s.contentType = contentType
	return "https://storage.googleapis.com/silai-images/" + object, nil
}

type stubPublisher struct {
	events []OrderEvent
	err    error
}

func (s *stubPublisher) PublishOrderEvent(_ context.Context, event OrderEvent) error {
	s.events = append(s.events, event)
	return s.err
}

type stubMetrics struct {
	created        map[string]int
	uploadFailures int
	statusChanges  int
	publishFailed  int
}

func (s *stubMetrics) OrderCreated(kind string) {
	if s.created == nil {
		s.created = map[string]int{}
	}
	s.created[kind]++
}
func (s *stubMetrics) ImageUploadFailed()           { s.uploadFailures++ }
func (s *stubMetrics) StatusChanged(string, string) { s.statusChanges++ }
func (s *stubMetrics) EventPublishFailed()          { s.publishFailed++ }

// memoryCache keeps values as-is and copies them into the destination types the services use.
type memoryCache struct {
	values  map[string]any
	deleted []string
	getErr  error
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	value, ok := c.values[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *domain.DashboardStats:
		*d = value.(domain.DashboardStats)
	case *[]domain.Fabric:
		*d = value.([]domain.Fabric)
	case *[]domain.Product:
		*d = value.([]domain.Product)
	default:
		return false, errors.New("memory cache: unsupported destination")
	}
	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.values == nil {
		c.values = map[string]any{}
	}
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func fixedClock() func() time.Time {
	now := time.Date(2026, 5, 6, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

func fixedOrderNumber(prefix string, now time.Time) string {
	return prefix + "-" + now.Format("20060102") + "-4821"
}
