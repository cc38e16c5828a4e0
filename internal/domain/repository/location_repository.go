package repository

import (
	"context"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for location persistence.
var (
	// ErrLocationNotFound is returned when a location is not found.
	ErrLocationNotFound = errors.New("location not found")
	// ErrDistrictNotFound is returned when a district is not found.
	ErrDistrictNotFound = errors.New("district not found")
)

// LocationRepository defines location-related database operations.
type LocationRepository interface {
	// Create persists a new location.
	Create(ctx context.Context, location *entity.Location) error

	// FindByID retrieves a location by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Location, error)

	// ListByScope retrieves locations visible under the access scope.
	ListByScope(ctx context.Context, scope policy.OwnerScope) ([]*entity.Location, error)

	// SetActive marks the given location active and every sibling location of
	// the same customer inactive, atomically.
	SetActive(ctx context.Context, customerID, locationID uuid.UUID) error

	// SoftDelete marks a location deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// DistrictRepository defines district-related database operations.
type DistrictRepository interface {
	Create(ctx context.Context, district *entity.District) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.District, error)
	List(ctx context.Context) ([]*entity.District, error)
	Update(ctx context.Context, district *entity.District) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
