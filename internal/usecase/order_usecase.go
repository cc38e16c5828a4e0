package usecase

import (
	"context"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"

	"github.com/google/uuid"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Units     int       `json:"units"`
}

// CreateOrderInput is the input for placing a new order. CustomerID is nil
// when staff create a curated-list order template.
type CreateOrderInput struct {
	CustomerID     *uuid.UUID            `json:"customer_id,omitempty"`
	LocationID     *uuid.UUID            `json:"location_id,omitempty"`
	DeliveryMethod entity.DeliveryMethod `json:"delivery_method"`
	DeliverySpeed  entity.DeliverySpeed  `json:"delivery_speed"`
	IsCuratedList  bool                  `json:"is_curated_list"`
	Items          []OrderItemInput      `json:"items"`
}

// OrderView is an order augmented with its customer-facing status label.
type OrderView struct {
	*entity.Order
	LastTrackerStatus string `json:"last_tracker_status"`
}

// OrderUsecase owns the order lifecycle: creation, transitions, dispatch, the
// tracker trail and policy-scoped reads.
type OrderUsecase interface {
	// CreateOrder validates the items, computes the totals, generates the
	// tracking number and records the implicit "Order Placed" tracker.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*OrderView, error)

	// GetOrder returns a single order when the actor's scope allows it.
	GetOrder(ctx context.Context, actor policy.Actor, orderID uuid.UUID) (*OrderView, error)

	// ListOrders returns orders under the actor's visibility scope.
	ListOrders(ctx context.Context, actor policy.Actor, filter repository.OrderFilter) ([]*OrderView, error)

	// CancelOrder cancels a placed order. Cancelling an already-cancelled
	// order is a no-op; any other state is an invalid transition.
	CancelOrder(ctx context.Context, orderID uuid.UUID) error

	// RejectOrder rejects a placed order.
	RejectOrder(ctx context.Context, orderID uuid.UUID) error

	// DeliverOrder marks a placed order delivered. A nil deliveredAt defaults
	// to the time of the update.
	DeliverOrder(ctx context.Context, orderID uuid.UUID, deliveredAt *time.Time) error

	// AssignDriver dispatches a driver onto the order without changing its
	// status. The assignee must hold the driver role.
	AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error

	// ListTrackers returns the order's event trail ordered by number.
	ListTrackers(ctx context.Context, actor policy.Actor, orderID uuid.UUID) ([]*entity.OrderTracker, error)

	// InvalidateItem soft-invalidates a line item, e.g. after a stock-out.
	InvalidateItem(ctx context.Context, orderID, itemID uuid.UUID) error

	// TrackingQR renders the order's tracking number as a PNG QR code.
	TrackingQR(ctx context.Context, actor policy.Actor, orderID uuid.UUID) ([]byte, error)
}
