package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// ShopModel mirrors the 'shops' table.
type ShopModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	IsSpecial bool      `gorm:"not null;default:false"`
	Image     string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ShopModel) TableName() string {
	return "shops"
}

// ProductModel mirrors the 'products' table. Prices are stored in currency
// minor units.
type ProductModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(150);index;not null"`
	Description string    `gorm:"type:text"`
	Color       string    `gorm:"type:varchar(50)"`
	Image       string    `gorm:"type:varchar(255)"`
	Weight      float64
	Discount    int   `gorm:"not null;default:0"`
	Price       int64 `gorm:"not null"`
	ExpiryDate  *time.Time
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ShopID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// StockModel mirrors the 'stocks' table.
type StockModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name         string    `gorm:"type:varchar(100)"`
	UnitsInStock int       `gorm:"not null;default:0"`
	UnitsOnOrder int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (StockModel) TableName() string {
	return "stocks"
}

// AnnouncementModel mirrors the 'announcements' table.
type AnnouncementModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(150);not null"`
	Body      string    `gorm:"type:text"`
	Image     string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (AnnouncementModel) TableName() string {
	return "announcements"
}
