package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentModel mirrors the 'payments' table. The unique remote transaction id
// is the replay guard for gateway webhooks.
type PaymentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount int64  `gorm:"not null"`
	Status string `gorm:"type:varchar(16);index;not null"`
	Method string `gorm:"type:varchar(16);not null"`

	MomoPhoneNumber     string  `gorm:"type:varchar(16)"`
	CardNumber          string  `gorm:"type:varchar(32)"`
	RemoteTransactionID *string `gorm:"type:varchar(64);uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}
