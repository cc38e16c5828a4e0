package service

import (
	"context"
	"time"
)

// OrderEvent records an order lifecycle change for downstream consumers
// (analytics, dispatch boards).
type OrderEvent struct {
	OrderID        string    `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
	CustomerID     string    `json:"customer_id,omitempty"`
	Status         string    `json:"status"`
	TrackerName    string    `json:"tracker_name"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing order events to a
// message queue.
type EventPublisher interface {
	// PublishOrderEvent publishes an order lifecycle event for async processing.
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}

// NotificationService sends push notifications to customers. Delivery is best
// effort: failures are logged, never surfaced to the request that caused them.
type NotificationService interface {
	// NotifyCustomer pushes a message to the customer's notification topic.
	NotifyCustomer(ctx context.Context, customerID string, title, body string, data map[string]string) error
}
