package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a payment attempt.
type PaymentStatus string

const (
	// PaymentStatusPending is the initial state of every payment.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusPaid is the terminal success state set by gateway confirmation.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusCancelled is a terminal state for denied or aborted attempts.
	PaymentStatusCancelled PaymentStatus = "cancelled"
	// PaymentStatusExpired is a terminal state for collection requests the
	// customer never approved.
	PaymentStatusExpired PaymentStatus = "expired"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusCancelled, PaymentStatusExpired},
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusCancelled, PaymentStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status accepts no further transitions.
func (s PaymentStatus) IsTerminal() bool {
	return s.IsValid() && len(paymentTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition s -> to is allowed.
func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	for _, next := range paymentTransitions[s] {
		if next == to {
			return true
		}
	}

	return false
}

// PaymentMethod is how a payment is collected.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodMobileMoney PaymentMethod = "mobile money"
	PaymentMethodCard        PaymentMethod = "card"
)

// IsValid checks if the payment method is a known value.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodCard:
		return true
	default:
		return false
	}
}

// Payment is one attempt to collect money for an order from a customer. An
// order may accumulate several attempts after expiries or cancellations.
type Payment struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	CustomerID uuid.UUID

	Amount int64 // Currency minor units, >= MinPaymentAmount.
	Status PaymentStatus
	Method PaymentMethod

	MomoPhoneNumber string // Set for mobile money collections.
	CardNumber      string // Set for card payments.

	// RemoteTransactionID is the gateway's transaction identifier recorded on
	// reconciliation; unique so webhook replays cannot settle twice.
	RemoteTransactionID *string

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time // Set only on successful collection.
}
