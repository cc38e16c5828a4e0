package repository

import (
	"context"
	"testing"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLocationRepository is a mock implementation of repository.LocationRepository.
type MockLocationRepository struct {
	mock.Mock
}

// NewMockLocationRepository creates a new mock bound to the test's lifecycle.
func NewMockLocationRepository(t *testing.T) *MockLocationRepository {
	m := &MockLocationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockLocationRepository) Create(ctx context.Context, location *entity.Location) error {
	args := m.Called(ctx, location)

	return args.Error(0)
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Location), args.Error(1)
}

func (m *MockLocationRepository) ListByScope(ctx context.Context, scope policy.OwnerScope) ([]*entity.Location, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Location), args.Error(1)
}

func (m *MockLocationRepository) SetActive(ctx context.Context, customerID, locationID uuid.UUID) error {
	args := m.Called(ctx, customerID, locationID)

	return args.Error(0)
}

func (m *MockLocationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockDistrictRepository is a mock implementation of repository.DistrictRepository.
type MockDistrictRepository struct {
	mock.Mock
}

// NewMockDistrictRepository creates a new mock bound to the test's lifecycle.
func NewMockDistrictRepository(t *testing.T) *MockDistrictRepository {
	m := &MockDistrictRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDistrictRepository) Create(ctx context.Context, district *entity.District) error {
	args := m.Called(ctx, district)

	return args.Error(0)
}

func (m *MockDistrictRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.District, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.District), args.Error(1)
}

func (m *MockDistrictRepository) List(ctx context.Context) ([]*entity.District, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.District), args.Error(1)
}

func (m *MockDistrictRepository) Update(ctx context.Context, district *entity.District) error {
	args := m.Called(ctx, district)

	return args.Error(0)
}

func (m *MockDistrictRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
