// Package model mirrors the database tables for GORM.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Phone        string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(16);not null"`
	Verified     bool      `gorm:"not null;default:false"`
	DateOfBirth  *time.Time
	ProfileImage string `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	Contacts  []ContactModel  `gorm:"foreignKey:CustomerID"`
	Locations []LocationModel `gorm:"foreignKey:CustomerID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ContactModel mirrors the 'contacts' table. The single-active invariant is
// maintained by the repository, never by row constraints.
type ContactModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Phone      string    `gorm:"type:varchar(16);not null"`
	IsActive   bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ContactModel) TableName() string {
	return "contacts"
}
