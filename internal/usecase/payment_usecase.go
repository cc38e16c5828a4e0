package usecase

import (
	"context"

	"konv/internal/domain/entity"

	"github.com/google/uuid"
)

// InitiatePaymentInput is the input for starting a payment attempt.
type InitiatePaymentInput struct {
	OrderID         uuid.UUID            `json:"order_id"`
	CustomerID      uuid.UUID            `json:"customer_id"`
	Amount          int64                `json:"amount"`
	Method          entity.PaymentMethod `json:"payment_method"`
	MomoPhoneNumber string               `json:"momo_phone_number,omitempty"`
	CardNumber      string               `json:"card_number,omitempty"`
}

// WebhookMetadata is the correlation blob echoed back by the gateway.
type WebhookMetadata struct {
	PaymentID string `json:"payment_id"`
}

// GatewayWebhookPayload is the asynchronous callback body from the
// mobile-money gateway.
type GatewayWebhookPayload struct {
	RemoteTransactionID string          `json:"remote_transaction_id"`
	Status              string          `json:"status"`
	Metadata            WebhookMetadata `json:"metadata"`
}

// Gateway outcome values understood by the webhook reconciler.
const (
	GatewayOutcomeSuccessful = "successful"
	GatewayOutcomeFailed     = "failed"
	GatewayOutcomeCancelled  = "cancelled"
	GatewayOutcomeExpired    = "expired"
)

// PaymentUsecase owns payment attempts and their reconciliation against the
// gateway webhook.
type PaymentUsecase interface {
	// InitiatePayment records a pending payment and, for mobile money,
	// submits a collection request to the gateway. A gateway failure is
	// surfaced to the caller while the payment stays pending for retry.
	InitiatePayment(ctx context.Context, input *InitiatePaymentInput) (*entity.Payment, error)

	// GetPayment returns a single payment.
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*entity.Payment, error)

	// ListOrderPayments returns every payment attempt against an order.
	ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error)

	// HandleGatewayWebhook reconciles an asynchronous gateway callback.
	// It is idempotent: replays of a settled transaction change nothing.
	// A payload missing the correlation key fails with ErrMalformedWebhook;
	// a payload referencing an unknown payment is acknowledged and logged so
	// the gateway does not retry forever.
	HandleGatewayWebhook(ctx context.Context, payload *GatewayWebhookPayload) error
}
