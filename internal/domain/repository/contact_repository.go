package repository

import (
	"context"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/errors"

	"github.com/google/uuid"
)

// ErrContactNotFound is returned when a contact is not found.
var ErrContactNotFound = errors.New("contact not found")

// ContactRepository defines contact-related database operations.
type ContactRepository interface {
	// Create persists a new contact.
	Create(ctx context.Context, contact *entity.Contact) error

	// FindByID retrieves a contact by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)

	// ListByScope retrieves contacts visible under the access scope.
	ListByScope(ctx context.Context, scope policy.OwnerScope) ([]*entity.Contact, error)

	// SetActive marks the given contact active and every sibling contact of
	// the same customer inactive. Implementations must make both writes in
	// the same statement or transaction so no interleaving observes zero or
	// two active rows.
	SetActive(ctx context.Context, customerID, contactID uuid.UUID) error

	// SoftDelete marks a contact deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
