package repository

import (
	"context"
	"testing"

	"konv/internal/domain/entity"
	"konv/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock implementation of repository.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

// NewMockCategoryRepository creates a new mock bound to the test's lifecycle.
func NewMockCategoryRepository(t *testing.T) *MockCategoryRepository {
	m := &MockCategoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)

	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)

	return args.Error(0)
}

func (m *MockCategoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockShopRepository is a mock implementation of repository.ShopRepository.
type MockShopRepository struct {
	mock.Mock
}

// NewMockShopRepository creates a new mock bound to the test's lifecycle.
func NewMockShopRepository(t *testing.T) *MockShopRepository {
	m := &MockShopRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockShopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	args := m.Called(ctx, shop)

	return args.Error(0)
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Shop), args.Error(1)
}

func (m *MockShopRepository) List(ctx context.Context) ([]*entity.Shop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Shop), args.Error(1)
}

func (m *MockShopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	args := m.Called(ctx, shop)

	return args.Error(0)
}

func (m *MockShopRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

// NewMockProductRepository creates a new mock bound to the test's lifecycle.
func NewMockProductRepository(t *testing.T) *MockProductRepository {
	m := &MockProductRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[uuid.UUID]*entity.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockStockRepository is a mock implementation of repository.StockRepository.
type MockStockRepository struct {
	mock.Mock
}

// NewMockStockRepository creates a new mock bound to the test's lifecycle.
func NewMockStockRepository(t *testing.T) *MockStockRepository {
	m := &MockStockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockStockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	args := m.Called(ctx, stock)

	return args.Error(0)
}

func (m *MockStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Stock), args.Error(1)
}

func (m *MockStockRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Stock, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Stock), args.Error(1)
}

func (m *MockStockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	args := m.Called(ctx, stock)

	return args.Error(0)
}

func (m *MockStockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockAnnouncementRepository is a mock implementation of repository.AnnouncementRepository.
type MockAnnouncementRepository struct {
	mock.Mock
}

// NewMockAnnouncementRepository creates a new mock bound to the test's lifecycle.
func NewMockAnnouncementRepository(t *testing.T) *MockAnnouncementRepository {
	m := &MockAnnouncementRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, announcement *entity.Announcement) error {
	args := m.Called(ctx, announcement)

	return args.Error(0)
}

func (m *MockAnnouncementRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) List(ctx context.Context) ([]*entity.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, announcement *entity.Announcement) error {
	args := m.Called(ctx, announcement)

	return args.Error(0)
}

func (m *MockAnnouncementRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
