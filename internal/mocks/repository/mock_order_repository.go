package repository

import (
	"context"
	"testing"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

// NewMockOrderRepository creates a new mock bound to the test's lifecycle.
func NewMockOrderRepository(t *testing.T) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Order, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByScope(ctx context.Context, scope policy.OrderScope, filter repository.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusFrom(ctx context.Context, orderID uuid.UUID, from, to entity.OrderStatus, valid bool, deliveredAt *time.Time) error {
	args := m.Called(ctx, orderID, from, to, valid, deliveredAt)

	return args.Error(0)
}

func (m *MockOrderRepository) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error {
	args := m.Called(ctx, orderID, driverID)

	return args.Error(0)
}

func (m *MockOrderRepository) AppendTracker(ctx context.Context, orderID uuid.UUID, name string) (*entity.OrderTracker, error) {
	args := m.Called(ctx, orderID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.OrderTracker), args.Error(1)
}

func (m *MockOrderRepository) ListTrackers(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderTracker, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.OrderTracker), args.Error(1)
}

func (m *MockOrderRepository) LastTracker(ctx context.Context, orderID uuid.UUID) (*entity.OrderTracker, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.OrderTracker), args.Error(1)
}

func (m *MockOrderRepository) SetItemValid(ctx context.Context, orderID, itemID uuid.UUID, valid bool) error {
	args := m.Called(ctx, orderID, itemID, valid)

	return args.Error(0)
}
