package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tracker labels surfaced to customers. Labels for failed or expired payment
// outcomes are deliberately not defined; only a confirmed payment appends an
// event to the trail.
const (
	TrackerOrderPlaced    = "Order Placed"
	TrackerOrderCancelled = "Order Cancelled"
	TrackerOrderRejected  = "Order Rejected"
	TrackerOrderDelivered = "Order Delivered"
	TrackerGoodsPurchased = "Goods Purchased"
)

// OrderTracker is an append-only status event attached to an order. Number is
// unique per order and increases by one with each recorded event; the most
// recent tracker drives the customer-facing status label.
type OrderTracker struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Number    int
	Name      string
	CreatedAt time.Time
}
