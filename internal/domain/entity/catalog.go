package entity

import (
	"time"

	"github.com/google/uuid"
)

// Validation bounds for catalog entities, in currency minor units where monetary.
const (
	MinPrice    int64 = 500
	MinDiscount       = 0
	MaxDiscount       = 99
)

// Category groups products.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Shop is a seller storefront.
type Shop struct {
	ID        uuid.UUID
	Name      string
	IsSpecial bool
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product belongs to exactly one category and one shop.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Color       string
	Image       string
	Weight      float64
	Discount    int   // Percentage, 0-99.
	Price       int64 // Currency minor units, >= MinPrice.
	ExpiryDate  *time.Time
	CategoryID  uuid.UUID
	ShopID      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DiscountedPrice returns the unit price after applying the product discount,
// truncated to whole minor units.
func (p *Product) DiscountedPrice() int64 {
	if p.Discount <= 0 {
		return p.Price
	}

	return p.Price - p.Price*int64(p.Discount)/100
}

// Stock tracks units in stock and on order for a product.
type Stock struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	Name         string
	UnitsInStock int
	UnitsOnOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Announcement is a content record surfaced to all customers.
type Announcement struct {
	ID        uuid.UUID
	Title     string
	Body      string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
