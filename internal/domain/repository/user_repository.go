package repository

import (
	"context"

	"konv/internal/domain/entity"
	"konv/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrPhoneTaken is returned when the unique phone constraint is violated.
	ErrPhoneTaken = errors.New("phone number already registered")
)

// UserFilter narrows a user listing.
type UserFilter struct {
	Role     *entity.Role
	Verified *bool
	Phone    *string
}

// UserRepository defines user-related database operations. Users are only ever
// soft-deleted.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByPhone retrieves a user by its unique phone number.
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)

	// Update modifies an existing user record.
	Update(ctx context.Context, user *entity.User) error

	// SoftDelete marks a user deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List retrieves users matching the filter.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
}
