// Package service provides testify mocks for the domain service interfaces.
package service

import (
	"context"
	"testing"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a new mock bound to the test's lifecycle.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateTokens(userID uuid.UUID, role entity.Role) (string, string, error) {
	args := m.Called(userID, role)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockTokenService) RefreshTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// MockPasswordHasher is a mock implementation of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a new mock bound to the test's lifecycle.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// MockCollectionGateway is a mock implementation of service.CollectionGateway.
type MockCollectionGateway struct {
	mock.Mock
}

// NewMockCollectionGateway creates a new mock bound to the test's lifecycle.
func NewMockCollectionGateway(t *testing.T) *MockCollectionGateway {
	m := &MockCollectionGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCollectionGateway) RequestCollection(ctx context.Context, req *service.CollectionRequest) (*service.CollectionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.CollectionResponse), args.Error(1)
}

// MockEventPublisher is a mock implementation of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a new mock bound to the test's lifecycle.
func NewMockEventPublisher(t *testing.T) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

// NewMockNotificationService creates a new mock bound to the test's lifecycle.
func NewMockNotificationService(t *testing.T) *MockNotificationService {
	m := &MockNotificationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationService) NotifyCustomer(ctx context.Context, customerID string, title, body string, data map[string]string) error {
	args := m.Called(ctx, customerID, title, body, data)

	return args.Error(0)
}

// MockDeliveryFeeQuoter is a mock implementation of service.DeliveryFeeQuoter.
type MockDeliveryFeeQuoter struct {
	mock.Mock
}

// NewMockDeliveryFeeQuoter creates a new mock bound to the test's lifecycle.
func NewMockDeliveryFeeQuoter(t *testing.T) *MockDeliveryFeeQuoter {
	m := &MockDeliveryFeeQuoter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDeliveryFeeQuoter) Quote(method entity.DeliveryMethod, speed entity.DeliverySpeed) int64 {
	args := m.Called(method, speed)

	return args.Get(0).(int64)
}

// MockTrackingCodeRenderer is a mock implementation of service.TrackingCodeRenderer.
type MockTrackingCodeRenderer struct {
	mock.Mock
}

// NewMockTrackingCodeRenderer creates a new mock bound to the test's lifecycle.
func NewMockTrackingCodeRenderer(t *testing.T) *MockTrackingCodeRenderer {
	m := &MockTrackingCodeRenderer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTrackingCodeRenderer) RenderPNG(trackingNumber string) ([]byte, error) {
	args := m.Called(trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}
