package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. Lifecycle history lives in
// order_trackers; orders themselves are never soft-deleted, the valid flag
// drops them from the working set instead.
type OrderModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingNumber string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	Status         string    `gorm:"type:varchar(16);index;not null"`
	Valid          bool      `gorm:"not null;default:true"`
	DeliveryMethod string    `gorm:"type:varchar(16);not null"`
	DeliverySpeed  string    `gorm:"type:varchar(16);not null"`

	SubTotalAmount int64 `gorm:"not null"`
	DeliveryFee    int64 `gorm:"not null"`
	TotalAmount    int64 `gorm:"not null"`

	ExpectedDeliveryAt *time.Time
	DeliveredAt        *time.Time

	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	DriverID      *uuid.UUID `gorm:"type:uuid;index"`
	LocationID    *uuid.UUID `gorm:"type:uuid"`
	IsCuratedList bool       `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []OrderItemModel    `gorm:"foreignKey:OrderID"`
	Trackers []OrderTrackerModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table.
type OrderItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	Units     int       `gorm:"not null"`
	Valid     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderTrackerModel mirrors the 'order_trackers' table. The composite unique
// index is what turns concurrent appends of the same number into a conflict
// the repository can surface.
type OrderTrackerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_order_tracker_number"`
	Number    int       `gorm:"not null;uniqueIndex:uniq_order_tracker_number"`
	Name      string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderTrackerModel) TableName() string {
	return "order_trackers"
}
