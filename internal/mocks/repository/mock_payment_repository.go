package repository

import (
	"context"
	"testing"
	"time"

	"konv/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of repository.PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

// NewMockPaymentRepository creates a new mock bound to the test's lifecycle.
func NewMockPaymentRepository(t *testing.T) *MockPaymentRepository {
	m := &MockPaymentRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)

	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByRemoteTransactionID(ctx context.Context, remoteTransactionID string) (*entity.Payment, error) {
	args := m.Called(ctx, remoteTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) HasPaidPayment(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)

	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) SettlePaid(ctx context.Context, paymentID uuid.UUID, remoteTransactionID string, paidAt time.Time) error {
	args := m.Called(ctx, paymentID, remoteTransactionID, paidAt)

	return args.Error(0)
}

func (m *MockPaymentRepository) SettleFailed(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus, remoteTransactionID string) error {
	args := m.Called(ctx, paymentID, status, remoteTransactionID)

	return args.Error(0)
}
