package service

import (
	"context"

	"github.com/google/uuid"
)

// CollectionRequest asks the mobile-money gateway to prompt a customer to
// approve a payment. Metadata carries the correlation key echoed back on the
// webhook so the callback can be matched to a payment.
type CollectionRequest struct {
	PhoneNumber string
	Amount      int64
	Currency    string
	Description string
	PaymentID   uuid.UUID
}

// CollectionResponse is the gateway's acknowledgment of a collection request.
type CollectionResponse struct {
	RemoteID string
	Status   string
}

// CollectionGateway is the outbound interface to the mobile-money provider.
// Implementations must enforce a request timeout; callers never invoke this
// inside a database transaction.
type CollectionGateway interface {
	// RequestCollection submits a collection request for a customer phone.
	RequestCollection(ctx context.Context, req *CollectionRequest) (*CollectionResponse, error)
}
