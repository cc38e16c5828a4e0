package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "konv/internal/delivery/context"
	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/repository"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	districtRepo     repository.DistrictRepository
	categoryRepo     repository.CategoryRepository
	shopRepo         repository.ShopRepository
	productRepo      repository.ProductRepository
	stockRepo        repository.StockRepository
	announcementRepo repository.AnnouncementRepository
	logger           *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	DistrictRepo     repository.DistrictRepository
	CategoryRepo     repository.CategoryRepository
	ShopRepo         repository.ShopRepository
	ProductRepo      repository.ProductRepository
	StockRepo        repository.StockRepository
	AnnouncementRepo repository.AnnouncementRepository
	Logger           *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		districtRepo:     params.DistrictRepo,
		categoryRepo:     params.CategoryRepo,
		shopRepo:         params.ShopRepo,
		productRepo:      params.ProductRepo,
		stockRepo:        params.StockRepo,
		announcementRepo: params.AnnouncementRepo,
		logger:           params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) CreateDistrict(ctx context.Context, input *usecase.SaveDistrictInput) (*entity.District, error) {
	if input.Name == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("district name is required")
	}

	now := time.Now()
	district := &entity.District{ID: uuid.New(), Name: input.Name, CreatedAt: now, UpdatedAt: now}
	if err := srv.districtRepo.Create(ctx, district); err != nil {
		if errors.Is(err, repository.ErrNameTaken) {
			return nil, domainerrors.ErrValidation.WrapMessage("district name already in use")
		}

		return nil, errors.Wrap(err, "failed to create district")
	}

	return district, nil
}

func (srv *catalogService) ListDistricts(ctx context.Context) ([]*entity.District, error) {
	districts, err := srv.districtRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list districts")
	}

	return districts, nil
}

func (srv *catalogService) DeleteDistrict(ctx context.Context, id uuid.UUID) error {
	if err := srv.districtRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDistrictNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("district not found")
		}

		return errors.Wrap(err, "failed to delete district")
	}

	return nil
}

func (srv *catalogService) CreateCategory(ctx context.Context, input *usecase.SaveCategoryInput) (*entity.Category, error) {
	if input.Name == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("category name is required")
	}

	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrNameTaken) {
			return nil, domainerrors.ErrValidation.WrapMessage("category name already in use")
		}

		return nil, errors.Wrap(err, "failed to create category")
	}

	return category, nil
}

func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := srv.categoryRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("category not found")
		}

		return errors.Wrap(err, "failed to delete category")
	}

	return nil
}

func (srv *catalogService) CreateShop(ctx context.Context, input *usecase.SaveShopInput) (*entity.Shop, error) {
	if input.Name == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("shop name is required")
	}

	now := time.Now()
	shop := &entity.Shop{
		ID:        uuid.New(),
		Name:      input.Name,
		IsSpecial: input.IsSpecial,
		Image:     input.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := srv.shopRepo.Create(ctx, shop); err != nil {
		if errors.Is(err, repository.ErrNameTaken) {
			return nil, domainerrors.ErrValidation.WrapMessage("shop name already in use")
		}

		return nil, errors.Wrap(err, "failed to create shop")
	}

	return shop, nil
}

func (srv *catalogService) ListShops(ctx context.Context) ([]*entity.Shop, error) {
	shops, err := srv.shopRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shops")
	}

	return shops, nil
}

func (srv *catalogService) DeleteShop(ctx context.Context, id uuid.UUID) error {
	if err := srv.shopRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("shop not found")
		}

		return errors.Wrap(err, "failed to delete shop")
	}

	return nil
}

func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.SaveProductInput) (*entity.Product, error) {
	if err := srv.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Image:       input.Image,
		Weight:      input.Weight,
		Discount:    input.Discount,
		Price:       input.Price,
		ExpiryDate:  input.ExpiryDate,
		CategoryID:  input.CategoryID,
		ShopID:      input.ShopID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.Name))

	return product, nil
}

func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

func (srv *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.SaveProductInput) (*entity.Product, error) {
	if err := srv.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Color = input.Color
	product.Image = input.Image
	product.Weight = input.Weight
	product.Discount = input.Discount
	product.Price = input.Price
	product.ExpiryDate = input.ExpiryDate
	product.CategoryID = input.CategoryID
	product.ShopID = input.ShopID
	product.UpdatedAt = time.Now()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

func (srv *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := srv.productRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("product not found")
		}

		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

func (srv *catalogService) CreateStock(ctx context.Context, input *usecase.SaveStockInput) (*entity.Stock, error) {
	if input.UnitsInStock < 0 || input.UnitsOnOrder < 0 {
		return nil, domainerrors.ErrValidation.WrapMessage("stock units cannot be negative")
	}
	if _, err := srv.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrValidation.WrapMessage("unknown product")
		}

		return nil, errors.Wrap(err, "failed to find product for stock")
	}

	now := time.Now()
	stock := &entity.Stock{
		ID:           uuid.New(),
		ProductID:    input.ProductID,
		Name:         input.Name,
		UnitsInStock: input.UnitsInStock,
		UnitsOnOrder: input.UnitsOnOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := srv.stockRepo.Create(ctx, stock); err != nil {
		return nil, errors.Wrap(err, "failed to create stock")
	}

	return stock, nil
}

func (srv *catalogService) ListProductStock(ctx context.Context, productID uuid.UUID) ([]*entity.Stock, error) {
	stocks, err := srv.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list product stock")
	}

	return stocks, nil
}

func (srv *catalogService) DeleteStock(ctx context.Context, id uuid.UUID) error {
	if err := srv.stockRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStockNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("stock not found")
		}

		return errors.Wrap(err, "failed to delete stock")
	}

	return nil
}

func (srv *catalogService) CreateAnnouncement(ctx context.Context, input *usecase.SaveAnnouncementInput) (*entity.Announcement, error) {
	if input.Title == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("announcement title is required")
	}

	now := time.Now()
	announcement := &entity.Announcement{
		ID:        uuid.New(),
		Title:     input.Title,
		Body:      input.Body,
		Image:     input.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := srv.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, errors.Wrap(err, "failed to create announcement")
	}

	return announcement, nil
}

func (srv *catalogService) ListAnnouncements(ctx context.Context) ([]*entity.Announcement, error) {
	announcements, err := srv.announcementRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list announcements")
	}

	return announcements, nil
}

func (srv *catalogService) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	if err := srv.announcementRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("announcement not found")
		}

		return errors.Wrap(err, "failed to delete announcement")
	}

	return nil
}

// validateProductInput checks the catalog bounds and referenced rows.
func (srv *catalogService) validateProductInput(ctx context.Context, input *usecase.SaveProductInput) error {
	if input.Name == "" {
		return domainerrors.ErrValidation.WrapMessage("product name is required")
	}
	if input.Price < entity.MinPrice {
		return domainerrors.ErrValidation.WrapMessage(
			fmt.Sprintf("price below the %d minimum", entity.MinPrice))
	}
	if input.Discount < entity.MinDiscount || input.Discount > entity.MaxDiscount {
		return domainerrors.ErrValidation.WrapMessage("discount out of range")
	}

	if _, err := srv.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrValidation.WrapMessage("unknown category")
		}

		return errors.Wrap(err, "failed to find category")
	}
	if _, err := srv.shopRepo.FindByID(ctx, input.ShopID); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return domainerrors.ErrValidation.WrapMessage("unknown shop")
		}

		return errors.Wrap(err, "failed to find shop")
	}

	return nil
}
