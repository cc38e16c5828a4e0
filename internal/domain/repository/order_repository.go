package repository

import (
	"context"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderItemNotFound is returned when an order item is not found.
	ErrOrderItemNotFound = errors.New("order item not found")
	// ErrTrackingNumberTaken is returned when the generated tracking number
	// collides with an existing order; callers regenerate and retry.
	ErrTrackingNumberTaken = errors.New("order tracking number already in use")
	// ErrTrackerNumberConflict is returned when two transitions race to
	// append the same tracker number for one order; callers retry the
	// enclosing transaction.
	ErrTrackerNumberConflict = errors.New("tracker number already recorded for this order")
	// ErrStaleOrderStatus is returned when a guarded status update matched no
	// row, meaning the order left the expected state concurrently.
	ErrStaleOrderStatus = errors.New("order status changed concurrently")
)

// OrderFilter narrows an order listing within the access scope.
type OrderFilter struct {
	Status   *entity.OrderStatus
	DriverID *uuid.UUID
	Valid    *bool
}

// OrderRepository defines order-related database operations.
type OrderRepository interface {
	// Create persists a new order together with its line items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByTrackingNumber retrieves an order by its customer-facing reference.
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Order, error)

	// ListByScope retrieves orders visible under the access scope, newest first.
	ListByScope(ctx context.Context, scope policy.OrderScope, filter OrderFilter) ([]*entity.Order, error)

	// UpdateStatusFrom moves the order from an expected current status to a
	// new one in a single guarded statement. Returns ErrStaleOrderStatus when
	// the order was not in the expected status.
	UpdateStatusFrom(ctx context.Context, orderID uuid.UUID, from, to entity.OrderStatus, valid bool, deliveredAt *time.Time) error

	// AssignDriver sets the driver without touching the status.
	AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error

	// AppendTracker records a lifecycle event numbered one past the current
	// maximum for the order. Returns ErrTrackerNumberConflict when a
	// concurrent append claimed the same number.
	AppendTracker(ctx context.Context, orderID uuid.UUID, name string) (*entity.OrderTracker, error)

	// ListTrackers returns the order's event trail ordered by number.
	ListTrackers(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderTracker, error)

	// LastTracker returns the most recent tracker for the order, or nil
	// without error when the order has no trail yet.
	LastTracker(ctx context.Context, orderID uuid.UUID) (*entity.OrderTracker, error)

	// SetItemValid flips the soft-invalidation flag on a line item.
	SetItemValid(ctx context.Context, orderID, itemID uuid.UUID, valid bool) error
}
