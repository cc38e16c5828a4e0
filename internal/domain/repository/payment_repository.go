package repository

import (
	"context"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for payment persistence.
var (
	// ErrPaymentNotFound is returned when a payment is not found.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentNotPending is returned when a guarded settlement matched no
	// row: the payment already left the pending state, typically because the
	// same gateway transaction was delivered twice.
	ErrPaymentNotPending = errors.New("payment is not pending")
	// ErrDuplicateRemoteTransaction is returned when the gateway transaction
	// id has already been recorded on another payment.
	ErrDuplicateRemoteTransaction = errors.New("remote transaction already recorded")
)

// PaymentRepository defines payment-related database operations.
type PaymentRepository interface {
	// Create persists a new payment in the pending state.
	Create(ctx context.Context, payment *entity.Payment) error

	// FindByID retrieves a payment by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)

	// FindByRemoteTransactionID retrieves the payment settled under the given
	// gateway transaction id.
	FindByRemoteTransactionID(ctx context.Context, remoteTransactionID string) (*entity.Payment, error)

	// ListByOrder retrieves every payment attempt against an order.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error)

	// HasPaidPayment reports whether the order already has a paid payment.
	HasPaidPayment(ctx context.Context, orderID uuid.UUID) (bool, error)

	// SettlePaid moves the payment from pending to paid, recording the
	// gateway transaction id and paid-at timestamp in one guarded statement.
	// Returns ErrPaymentNotPending when the payment already settled.
	SettlePaid(ctx context.Context, paymentID uuid.UUID, remoteTransactionID string, paidAt time.Time) error

	// SettleFailed moves the payment from pending to cancelled or expired,
	// recording the gateway transaction id. Returns ErrPaymentNotPending when
	// the payment already settled.
	SettleFailed(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus, remoteTransactionID string) error
}
