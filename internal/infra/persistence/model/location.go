package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DistrictModel mirrors the 'districts' table.
type DistrictModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (DistrictModel) TableName() string {
	return "districts"
}

// LocationModel mirrors the 'locations' table.
type LocationModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	DistrictID *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:varchar(100);not null"`
	Latitude   float64    `gorm:"not null"`
	Longitude  float64    `gorm:"not null"`
	IsActive   bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (LocationModel) TableName() string {
	return "locations"
}
