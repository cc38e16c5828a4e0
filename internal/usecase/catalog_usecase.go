package usecase

import (
	"context"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/domain/repository"

	"github.com/google/uuid"
)

// SaveDistrictInput is the input for creating or updating a district.
type SaveDistrictInput struct {
	Name string `json:"name"`
}

// SaveCategoryInput is the input for creating or updating a category.
type SaveCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// SaveShopInput is the input for creating or updating a shop.
type SaveShopInput struct {
	Name      string `json:"name"`
	IsSpecial bool   `json:"is_special"`
	Image     string `json:"image"`
}

// SaveProductInput is the input for creating or updating a product.
type SaveProductInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Image       string     `json:"image"`
	Weight      float64    `json:"weight"`
	Discount    int        `json:"discount"`
	Price       int64      `json:"price"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	CategoryID  uuid.UUID  `json:"category_id"`
	ShopID      uuid.UUID  `json:"shop_id"`
}

// SaveStockInput is the input for creating or updating a stock record.
type SaveStockInput struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	UnitsInStock int       `json:"units_in_stock"`
	UnitsOnOrder int       `json:"units_on_order"`
}

// SaveAnnouncementInput is the input for creating or updating an announcement.
type SaveAnnouncementInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image"`
}

// CatalogUsecase covers the persistence-backed catalog resources: no lifecycle
// logic beyond field validation bounds.
type CatalogUsecase interface {
	CreateDistrict(ctx context.Context, input *SaveDistrictInput) (*entity.District, error)
	ListDistricts(ctx context.Context) ([]*entity.District, error)
	DeleteDistrict(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, input *SaveCategoryInput) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateShop(ctx context.Context, input *SaveShopInput) (*entity.Shop, error)
	ListShops(ctx context.Context) ([]*entity.Shop, error)
	DeleteShop(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, input *SaveProductInput) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *SaveProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateStock(ctx context.Context, input *SaveStockInput) (*entity.Stock, error)
	ListProductStock(ctx context.Context, productID uuid.UUID) ([]*entity.Stock, error)
	DeleteStock(ctx context.Context, id uuid.UUID) error

	CreateAnnouncement(ctx context.Context, input *SaveAnnouncementInput) (*entity.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]*entity.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id uuid.UUID) error
}
