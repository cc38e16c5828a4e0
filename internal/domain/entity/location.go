package entity

import (
	"time"

	"github.com/google/uuid"
)

// Coordinate bounds carried over from the upstream data set.
const (
	CoordinateMin = 0.0
	CoordinateMax = 50.0
)

// District is a named region used as an informational grouping for locations.
type District struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is a customer-owned delivery destination. At most one location per
// customer is active at a time, mirroring the Contact invariant.
type Location struct {
	ID         uuid.UUID
	CustomerID *uuid.UUID // Nil for locations not tied to a customer.
	DistrictID *uuid.UUID
	Name       string
	Latitude   float64
	Longitude  float64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidCoordinate reports whether the value lies inside the accepted range.
func ValidCoordinate(v float64) bool {
	return v >= CoordinateMin && v <= CoordinateMax
}
