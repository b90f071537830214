package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
)

func newProductOrderService(t *testing.T, repo *stubProductOrderRepository, publisher *stubPublisher) ProductOrderService {
	t.Helper()
	svc, err := NewProductOrderService(ProductOrderServiceDeps{
		Orders:       repo,
		Events:       publisher,
		Clock:        fixedClock(),
		IDGenerator:  sequentialIDs("po_"),
		OrderNumbers: fixedOrderNumber,
	})
	if err != nil {
		t.Fatalf("NewProductOrderService: %v", err)
	}
	return svc
}

func productCommand(lines ...ProductLineInput) CreateProductOrderCommand {
	return CreateProductOrderCommand{
		Customer:      validCustomer(),
		Address:       validAddress(),
		Items:         lines,
		PaymentMethod: domain.PaymentMethodUPI,
	}
}

func line(id string, price int64, qty int) ProductLineInput {
	return ProductLineInput{ProductID: id, Name: "Item " + id, Price: decimal.NewFromInt(price), Quantity: qty}
}

func TestCreateProductOrderEmptyCartFailsWithoutWrite(t *testing.T) {
	repo := &stubProductOrderRepository{}
	publisher := &stubPublisher{}
	svc := newProductOrderService(t, repo, publisher)

	_, err := svc.CreateOrder(context.Background(), productCommand())
	if !errors.Is(err, ErrOrderInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("expected no write, got %d", len(repo.inserted))
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no events, got %d", len(publisher.events))
	}
}

func TestCreateProductOrderDeliveryThreshold(t *testing.T) {
	cases := []struct {
		name     string
		lines    []ProductLineInput
		subtotal int64
		delivery int64
	}{
		{name: "below threshold", lines: []ProductLineInput{line("p1", 150, 2)}, subtotal: 300, delivery: 50},
		{name: "exactly threshold", lines: []ProductLineInput{line("p1", 250, 2)}, subtotal: 500, delivery: 50},
		{name: "just above", lines: []ProductLineInput{line("p1", 250, 2), line("p2", 1, 1)}, subtotal: 501, delivery: 0},
		{name: "well above", lines: []ProductLineInput{line("p1", 899, 1), line("p2", 120, 3)}, subtotal: 1259, delivery: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubProductOrderRepository{}
			svc := newProductOrderService(t, repo, &stubPublisher{})

			receipt, err := svc.CreateOrder(context.Background(), productCommand(tc.lines...))
			if err != nil {
				t.Fatalf("CreateOrder: %v", err)
			}
			pricing := receipt.Order.Pricing
			if !pricing.Subtotal.Equal(decimal.NewFromInt(tc.subtotal)) {
				t.Fatalf("expected subtotal %d, got %s", tc.subtotal, pricing.Subtotal)
			}
			if !pricing.DeliveryCharge.Equal(decimal.NewFromInt(tc.delivery)) {
				t.Fatalf("expected delivery %d, got %s", tc.delivery, pricing.DeliveryCharge)
			}
			if !pricing.Total.Equal(pricing.Subtotal.Add(pricing.DeliveryCharge)) {
				t.Fatalf("total %s != subtotal + delivery", pricing.Total)
			}
		})
	}
}

func TestCreateProductOrderTrustsCallerPricesAndSnapshotsItems(t *testing.T) {
	repo := &stubProductOrderRepository{}
	svc := newProductOrderService(t, repo, &stubPublisher{})

	cmd := productCommand(ProductLineInput{
		ProductID: "dupatta-01",
		Name:      "Phulkari Dupatta",
		Category:  "accessories",
		Size:      " ",
		Color:     "Mustard",
		Price:     decimal.RequireFromString("349.50"),
		Quantity:  2,
	})
	receipt, err := svc.CreateOrder(context.Background(), cmd)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if receipt.OrderNumber != "PROD-20260506-4821" {
		t.Fatalf("unexpected order number %s", receipt.OrderNumber)
	}
	item := repo.inserted[0].Items[0]
	if !item.Subtotal.Equal(decimal.RequireFromString("699")) {
		t.Fatalf("expected item subtotal 699, got %s", item.Subtotal)
	}
	if item.Size != "" || item.Color != "Mustard" {
		t.Fatalf("unexpected variant snapshot %+v", item)
	}
	if repo.inserted[0].PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %s", repo.inserted[0].PaymentStatus)
	}
}

func TestCreateProductOrderRejectsBadLines(t *testing.T) {
	cases := map[string]ProductLineInput{
		"missing product": {Name: "x", Price: decimal.NewFromInt(10), Quantity: 1},
		"zero quantity":   line("p1", 10, 0),
		"negative price":  line("p1", -10, 1),
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubProductOrderRepository{}
			svc := newProductOrderService(t, repo, &stubPublisher{})
			if _, err := svc.CreateOrder(context.Background(), productCommand(line("ok", 10, 1), bad)); !errors.Is(err, ErrOrderInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if len(repo.inserted) != 0 {
				t.Fatalf("expected no write")
			}
		})
	}
}

func TestCreateProductOrderSurfacesBackendFailure(t *testing.T) {
	repo := &stubProductOrderRepository{insertErr: errRepoUnavailable}
	svc := newProductOrderService(t, repo, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), productCommand(line("p1", 100, 1)))
	if !errors.Is(err, ErrOrderUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestProductOrderStatusAndPaymentStatusAreIndependent(t *testing.T) {
	repo := &stubProductOrderRepository{}
	publisher := &stubPublisher{}
	svc := newProductOrderService(t, repo, publisher)

	receipt, err := svc.CreateOrder(context.Background(), productCommand(line("p1", 600, 1)))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	for _, from := range domain.OrderStatuses {
		for _, to := range domain.OrderStatuses {
			if _, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{OrderID: receipt.ID, Status: from}); err != nil {
				t.Fatalf("set %s: %v", from, err)
			}
			if _, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{OrderID: receipt.ID, Status: to}); err != nil {
				t.Fatalf("%s -> %s rejected: %v", from, to, err)
			}
		}
	}

	updated, err := svc.UpdatePaymentStatus(context.Background(), UpdatePaymentStatusCommand{OrderID: receipt.ID, Status: "PAID", ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", updated.PaymentStatus)
	}
	if updated.Status != domain.OrderStatusCancelled {
		t.Fatalf("payment update must not touch status, got %s", updated.Status)
	}

	last := publisher.events[len(publisher.events)-1]
	if last.Type != OrderEventPaymentStatusChanged || last.PreviousValue != string(domain.PaymentStatusPending) {
		t.Fatalf("unexpected event %+v", last)
	}

	if _, err := svc.UpdatePaymentStatus(context.Background(), UpdatePaymentStatusCommand{OrderID: receipt.ID, Status: "refunded"}); !errors.Is(err, ErrOrderInvalidInput) {
		t.Fatalf("expected invalid input for unknown payment status, got %v", err)
	}
}
