package repository

import (
	"context"
	"testing"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockContactRepository is a mock implementation of repository.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

// NewMockContactRepository creates a new mock bound to the test's lifecycle.
func NewMockContactRepository(t *testing.T) *MockContactRepository {
	m := &MockContactRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	args := m.Called(ctx, contact)

	return args.Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) ListByScope(ctx context.Context, scope policy.OwnerScope) ([]*entity.Contact, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) SetActive(ctx context.Context, customerID, contactID uuid.UUID) error {
	args := m.Called(ctx, customerID, contactID)

	return args.Error(0)
}

func (m *MockContactRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
