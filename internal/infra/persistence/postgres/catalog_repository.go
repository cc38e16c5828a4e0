package postgres

import (
	"context"

	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/repository"
	"konv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Catalog repositories are read-mostly and live outside the transactional
// repository factory; order pricing reads products through the same *gorm.DB
// handle but never mutates them.

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func fromCategoryDomain(category *entity.Category) *model.CategoryModel {
	return &model.CategoryModel{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Image:       category.Image,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func toCategoryDomain(categoryM *model.CategoryModel) *entity.Category {
	return &entity.Category{
		ID:          categoryM.ID,
		Name:        categoryM.Name,
		Description: categoryM.Description,
		Image:       categoryM.Image,
		CreatedAt:   categoryM.CreatedAt,
		UpdatedAt:   categoryM.UpdatedAt,
	}
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)

	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryM model.CategoryModel
	if err := repo.db.WithContext(ctx).First(&categoryM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category by ID")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []*model.CategoryModel
	if err := repo.db.WithContext(ctx).Order("name").Find(&categoryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(categoryModels))
	for _, categoryM := range categoryModels {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return categories, nil
}

func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":        category.Name,
			"description": category.Description,
			"image":       category.Image,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

func (repo *categoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository is the constructor for shopRepository.
func NewShopRepository(db *gorm.DB) repository.ShopRepository {
	return &shopRepository{db: db}
}

func fromShopDomain(shop *entity.Shop) *model.ShopModel {
	return &model.ShopModel{
		ID:        shop.ID,
		Name:      shop.Name,
		IsSpecial: shop.IsSpecial,
		Image:     shop.Image,
		CreatedAt: shop.CreatedAt,
		UpdatedAt: shop.UpdatedAt,
	}
}

func toShopDomain(shopM *model.ShopModel) *entity.Shop {
	return &entity.Shop{
		ID:        shopM.ID,
		Name:      shopM.Name,
		IsSpecial: shopM.IsSpecial,
		Image:     shopM.Image,
		CreatedAt: shopM.CreatedAt,
		UpdatedAt: shopM.UpdatedAt,
	}
}

func (repo *shopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	shopM := fromShopDomain(shop)

	if err := repo.db.WithContext(ctx).Create(shopM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create shop")
	}

	shop.CreatedAt = shopM.CreatedAt
	shop.UpdatedAt = shopM.UpdatedAt

	return nil
}

func (repo *shopRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	var shopM model.ShopModel
	if err := repo.db.WithContext(ctx).First(&shopM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrShopNotFound
		}

		return nil, errors.Wrap(err, "failed to find shop by ID")
	}

	return toShopDomain(&shopM), nil
}

func (repo *shopRepository) List(ctx context.Context) ([]*entity.Shop, error) {
	var shopModels []*model.ShopModel
	if err := repo.db.WithContext(ctx).Order("name").Find(&shopModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list shops")
	}

	shops := make([]*entity.Shop, 0, len(shopModels))
	for _, shopM := range shopModels {
		shops = append(shops, toShopDomain(shopM))
	}

	return shops, nil
}

func (repo *shopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ShopModel{}).
		Where("id = ?", shop.ID).
		Updates(map[string]any{
			"name":       shop.Name,
			"is_special": shop.IsSpecial,
			"image":      shop.Image,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update shop")
	}
	if result.RowsAffected == 0 {
		return repository.ErrShopNotFound
	}

	return nil
}

func (repo *shopRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.ShopModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete shop")
	}
	if result.RowsAffected == 0 {
		return repository.ErrShopNotFound
	}

	return nil
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func fromProductDomain(product *entity.Product) *model.ProductModel {
	return &model.ProductModel{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Color:       product.Color,
		Image:       product.Image,
		Weight:      product.Weight,
		Discount:    product.Discount,
		Price:       product.Price,
		ExpiryDate:  product.ExpiryDate,
		CategoryID:  product.CategoryID,
		ShopID:      product.ShopID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toProductDomain(productM *model.ProductModel) *entity.Product {
	return &entity.Product{
		ID:          productM.ID,
		Name:        productM.Name,
		Description: productM.Description,
		Color:       productM.Color,
		Image:       productM.Image,
		Weight:      productM.Weight,
		Discount:    productM.Discount,
		Price:       productM.Price,
		ExpiryDate:  productM.ExpiryDate,
		CategoryID:  productM.CategoryID,
		ShopID:      productM.ShopID,
		CreatedAt:   productM.CreatedAt,
		UpdatedAt:   productM.UpdatedAt,
	}
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("product references an unknown category or shop")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).First(&productM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by ID")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	products := make(map[uuid.UUID]*entity.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products by IDs")
	}

	for _, productM := range productModels {
		products[productM.ID] = toProductDomain(productM)
	}

	return products, nil
}

func (repo *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.Name != nil {
		query = query.Where("name LIKE ?", "%"+*filter.Name+"%")
	}

	var productModels []*model.ProductModel
	if err := query.Order("created_at DESC").Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"color":       product.Color,
			"image":       product.Image,
			"weight":      product.Weight,
			"discount":    product.Discount,
			"price":       product.Price,
			"expiry_date": product.ExpiryDate,
			"category_id": product.CategoryID,
			"shop_id":     product.ShopID,
		})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrValidation.WrapMessage("product references an unknown category or shop")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository is the constructor for stockRepository.
func NewStockRepository(db *gorm.DB) repository.StockRepository {
	return &stockRepository{db: db}
}

func fromStockDomain(stock *entity.Stock) *model.StockModel {
	return &model.StockModel{
		ID:           stock.ID,
		ProductID:    stock.ProductID,
		Name:         stock.Name,
		UnitsInStock: stock.UnitsInStock,
		UnitsOnOrder: stock.UnitsOnOrder,
		CreatedAt:    stock.CreatedAt,
		UpdatedAt:    stock.UpdatedAt,
	}
}

func toStockDomain(stockM *model.StockModel) *entity.Stock {
	return &entity.Stock{
		ID:           stockM.ID,
		ProductID:    stockM.ProductID,
		Name:         stockM.Name,
		UnitsInStock: stockM.UnitsInStock,
		UnitsOnOrder: stockM.UnitsOnOrder,
		CreatedAt:    stockM.CreatedAt,
		UpdatedAt:    stockM.UpdatedAt,
	}
}

func (repo *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	stockM := fromStockDomain(stock)

	if err := repo.db.WithContext(ctx).Create(stockM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("stock references an unknown product")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create stock")
	}

	stock.CreatedAt = stockM.CreatedAt
	stock.UpdatedAt = stockM.UpdatedAt

	return nil
}

func (repo *stockRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Stock, error) {
	var stockM model.StockModel
	if err := repo.db.WithContext(ctx).First(&stockM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStockNotFound
		}

		return nil, errors.Wrap(err, "failed to find stock by ID")
	}

	return toStockDomain(&stockM), nil
}

func (repo *stockRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Stock, error) {
	var stockModels []*model.StockModel
	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&stockModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list stock")
	}

	stocks := make([]*entity.Stock, 0, len(stockModels))
	for _, stockM := range stockModels {
		stocks = append(stocks, toStockDomain(stockM))
	}

	return stocks, nil
}

func (repo *stockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	result := repo.db.WithContext(ctx).
		Model(&model.StockModel{}).
		Where("id = ?", stock.ID).
		Updates(map[string]any{
			"name":           stock.Name,
			"units_in_stock": stock.UnitsInStock,
			"units_on_order": stock.UnitsOnOrder,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update stock")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStockNotFound
	}

	return nil
}

func (repo *stockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.StockModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete stock")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStockNotFound
	}

	return nil
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository is the constructor for announcementRepository.
func NewAnnouncementRepository(db *gorm.DB) repository.AnnouncementRepository {
	return &announcementRepository{db: db}
}

func fromAnnouncementDomain(announcement *entity.Announcement) *model.AnnouncementModel {
	return &model.AnnouncementModel{
		ID:        announcement.ID,
		Title:     announcement.Title,
		Body:      announcement.Body,
		Image:     announcement.Image,
		CreatedAt: announcement.CreatedAt,
		UpdatedAt: announcement.UpdatedAt,
	}
}

func toAnnouncementDomain(announcementM *model.AnnouncementModel) *entity.Announcement {
	return &entity.Announcement{
		ID:        announcementM.ID,
		Title:     announcementM.Title,
		Body:      announcementM.Body,
		Image:     announcementM.Image,
		CreatedAt: announcementM.CreatedAt,
		UpdatedAt: announcementM.UpdatedAt,
	}
}

func (repo *announcementRepository) Create(ctx context.Context, announcement *entity.Announcement) error {
	announcementM := fromAnnouncementDomain(announcement)

	if err := repo.db.WithContext(ctx).Create(announcementM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create announcement")
	}

	announcement.CreatedAt = announcementM.CreatedAt
	announcement.UpdatedAt = announcementM.UpdatedAt

	return nil
}

func (repo *announcementRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Announcement, error) {
	var announcementM model.AnnouncementModel
	if err := repo.db.WithContext(ctx).First(&announcementM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAnnouncementNotFound
		}

		return nil, errors.Wrap(err, "failed to find announcement by ID")
	}

	return toAnnouncementDomain(&announcementM), nil
}

func (repo *announcementRepository) List(ctx context.Context) ([]*entity.Announcement, error) {
	var announcementModels []*model.AnnouncementModel
	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&announcementModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list announcements")
	}

	announcements := make([]*entity.Announcement, 0, len(announcementModels))
	for _, announcementM := range announcementModels {
		announcements = append(announcements, toAnnouncementDomain(announcementM))
	}

	return announcements, nil
}

func (repo *announcementRepository) Update(ctx context.Context, announcement *entity.Announcement) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AnnouncementModel{}).
		Where("id = ?", announcement.ID).
		Updates(map[string]any{
			"title": announcement.Title,
			"body":  announcement.Body,
			"image": announcement.Image,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update announcement")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAnnouncementNotFound
	}

	return nil
}

func (repo *announcementRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.AnnouncementModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete announcement")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAnnouncementNotFound
	}

	return nil
}
