package services

import (
	"context"
	"time"
)

const (
	OrderEventCreated              = "order.created"
	OrderEventStatusChanged        = "order.status_changed"
	OrderEventPaymentStatusChanged = "order.payment_status_changed"

	collectionFabricOrders  = "orders"
	collectionProductOrders = "productOrders"
)

// OrderEventPublisher publishes order domain events for downstream consumers.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// OrderEvent is the payload published for order lifecycle changes. Total is a decimal string.
type OrderEvent struct {
	Type          string    `json:"type"`
	Collection    string    `json:"collection"`
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	CustomerID    string    `json:"customerId,omitempty"`
	Status        string    `json:"status,omitempty"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	PreviousValue string    `json:"previousValue,omitempty"`
	Total         string    `json:"total,omitempty"`
	ActorID       string    `json:"actorId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// OrderMetrics receives order counters. observability.Metrics satisfies it.
type OrderMetrics interface {
	OrderCreated(kind string)
	ImageUploadFailed()
	StatusChanged(collection, field string)
	EventPublishFailed()
}

type noopMetrics struct{}

func (noopMetrics) OrderCreated(string)          {}
func (noopMetrics) ImageUploadFailed()           {}
func (noopMetrics) StatusChanged(string, string) {}
func (noopMetrics) EventPublishFailed()          {}

// eventEmitter publishes best effort. Failures are logged and counted, never returned.
type eventEmitter struct {
	publisher OrderEventPublisher
	metrics   OrderMetrics
	logger    func(context.Context, string, map[string]any)
}

func (e eventEmitter) emit(ctx context.Context, event OrderEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishOrderEvent(ctx, event); err != nil {
		e.metrics.EventPublishFailed()
		e.logger(ctx, "order.event.publish_failed", map[string]any{
			"type":    event.Type,
			"orderId": event.OrderID,
			"error":   err.Error(),
		})
	}
}

func defaultLogger(logger func(context.Context, string, map[string]any)) func(context.Context, string, map[string]any) {
	if logger == nil {
		return func(context.Context, string, map[string]any) {}
	}
	return logger
}

func defaultMetrics(metrics OrderMetrics) OrderMetrics {
	if metrics == nil {
		return noopMetrics{}
	}
	return metrics
}

func defaultClock(clock func() time.Time) func() time.Time {
	if clock == nil {
		clock = time.Now
	}
	return func() time.Time { return clock().UTC() }
}
