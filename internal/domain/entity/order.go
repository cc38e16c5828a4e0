package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPlaced is the initial state of every order.
	OrderStatusPlaced OrderStatus = "placed"
	// OrderStatusCancelled is a terminal state reached by customer or staff cancellation.
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusRejected is a terminal state reached by staff rejection.
	OrderStatusRejected OrderStatus = "rejected"
	// OrderStatusDelivered is the terminal success state.
	OrderStatusDelivered OrderStatus = "delivered"
)

// orderTransitions is the authoritative transition table: orders leave placed
// exactly once and terminal states accept no further transitions.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced: {OrderStatusCancelled, OrderStatusRejected, OrderStatusDelivered},
}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusCancelled, OrderStatusRejected, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status accepts no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition s -> to is allowed.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}

	return false
}

// TrackerLabel is the human status label appended to the order trail when the
// order enters this state.
func (s OrderStatus) TrackerLabel() string {
	switch s {
	case OrderStatusPlaced:
		return TrackerOrderPlaced
	case OrderStatusCancelled:
		return TrackerOrderCancelled
	case OrderStatusRejected:
		return TrackerOrderRejected
	case OrderStatusDelivered:
		return TrackerOrderDelivered
	default:
		return ""
	}
}

// DeliveryMethod is how an order reaches the customer.
type DeliveryMethod string

const (
	DeliveryMethodVehicle    DeliveryMethod = "vehicle"
	DeliveryMethodMotorcycle DeliveryMethod = "motorcycle"
	DeliveryMethodPickup     DeliveryMethod = "pickup"
)

// IsValid checks if the delivery method is a known value.
func (m DeliveryMethod) IsValid() bool {
	switch m {
	case DeliveryMethodVehicle, DeliveryMethodMotorcycle, DeliveryMethodPickup:
		return true
	default:
		return false
	}
}

// DeliverySpeed is the requested delivery urgency.
type DeliverySpeed string

const (
	DeliverySpeedOrdinary DeliverySpeed = "ordinary"
	DeliverySpeedExpress  DeliverySpeed = "express"
)

// IsValid checks if the delivery speed is a known value.
func (s DeliverySpeed) IsValid() bool {
	switch s {
	case DeliverySpeedOrdinary, DeliverySpeedExpress:
		return true
	default:
		return false
	}
}

// Minimum monetary amounts in currency minor units.
const (
	MinOrderAmount   int64 = 500
	MinDeliveryFee   int64 = 500
	MinPaymentAmount int64 = 500
)

// TrackingNumberLength is the length of the customer-facing tracking reference.
const TrackingNumberLength = 8

// Order is the central aggregate: it owns its line items, lifecycle state and
// monetary totals, and is referenced by payments and trackers.
type Order struct {
	ID             uuid.UUID
	TrackingNumber string // 8-digit numeric customer-facing reference.
	Status         OrderStatus
	Valid          bool
	DeliveryMethod DeliveryMethod
	DeliverySpeed  DeliverySpeed

	SubTotalAmount int64 // Sum of discounted line amounts.
	DeliveryFee    int64
	TotalAmount    int64 // SubTotalAmount + DeliveryFee.

	ExpectedDeliveryAt *time.Time
	DeliveredAt        *time.Time

	// CustomerID is nil for staff-curated list orders shown to every customer.
	CustomerID    *uuid.UUID
	DriverID      *uuid.UUID // Nil until dispatch.
	LocationID    *uuid.UUID
	IsCuratedList bool

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a product line entry belonging to exactly one order. Valid=false
// marks a soft-invalidated line without deleting the row.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Units     int
	Valid     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
