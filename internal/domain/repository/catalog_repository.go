package repository

import (
	"context"

	"konv/internal/domain/entity"
	"konv/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrShopNotFound is returned when a shop is not found.
	ErrShopNotFound = errors.New("shop not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrStockNotFound is returned when a stock record is not found.
	ErrStockNotFound = errors.New("stock not found")
	// ErrAnnouncementNotFound is returned when an announcement is not found.
	ErrAnnouncementNotFound = errors.New("announcement not found")
	// ErrNameTaken is returned when a unique name constraint is violated.
	ErrNameTaken = errors.New("name already in use")
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryID *uuid.UUID
	ShopID     *uuid.UUID
	Name       *string
}

// CategoryRepository defines category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ShopRepository defines shop persistence.
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error)
	List(ctx context.Context) ([]*entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs retrieves the products for the given IDs. Missing IDs are
	// simply absent from the result; callers decide whether that is an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)

	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// StockRepository defines stock persistence.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Stock, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// AnnouncementRepository defines announcement persistence.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *entity.Announcement) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Announcement, error)
	List(ctx context.Context) ([]*entity.Announcement, error)
	Update(ctx context.Context, announcement *entity.Announcement) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
