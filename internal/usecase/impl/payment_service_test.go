package impl

import (
	"context"
	"log/slog"
	"testing"

	"konv/config"
	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/repository"
	"konv/internal/domain/service"
	mockRepo "konv/internal/mocks/repository"
	mockSvc "konv/internal/mocks/service"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentServiceMocks struct {
	paymentRepo *mockRepo.MockPaymentRepository
	orderRepo   *mockRepo.MockOrderRepository
	gateway     *mockSvc.MockCollectionGateway
	publisher   *mockSvc.MockEventPublisher
	notifier    *mockSvc.MockNotificationService
}

func newPaymentService(t *testing.T) (usecase.PaymentUsecase, *paymentServiceMocks) {
	m := &paymentServiceMocks{
		paymentRepo: mockRepo.NewMockPaymentRepository(t),
		orderRepo:   mockRepo.NewMockOrderRepository(t),
		gateway:     mockSvc.NewMockCollectionGateway(t),
		publisher:   mockSvc.NewMockEventPublisher(t),
		notifier:    mockSvc.NewMockNotificationService(t),
	}

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{
			OrderRepo:   m.orderRepo,
			PaymentRepo: m.paymentRepo,
		},
	}

	cfg := &config.Config{Beyonic: &config.BeyonicConfig{Currency: "UGX"}}

	srv := NewPaymentService(PaymentServiceParams{
		TxManager:   txManager,
		PaymentRepo: m.paymentRepo,
		OrderRepo:   m.orderRepo,
		Gateway:     m.gateway,
		Publisher:   m.publisher,
		Notifier:    m.notifier,
		Config:      cfg,
		Logger:      slog.Default(),
	})

	return srv, m
}

func pendingPayment(orderID uuid.UUID) *entity.Payment {
	return &entity.Payment{
		ID:         uuid.New(),
		OrderID:    orderID,
		CustomerID: uuid.New(),
		Amount:     8500,
		Status:     entity.PaymentStatusPending,
		Method:     entity.PaymentMethodMobileMoney,
	}
}

func TestPaymentService_InitiatePayment_MobileMoney(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	input := &usecase.InitiatePaymentInput{
		OrderID:         order.ID,
		CustomerID:      *order.CustomerID,
		Amount:          8500,
		Method:          entity.PaymentMethodMobileMoney,
		MomoPhoneNumber: "+256700000001",
	}

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.paymentRepo.On("HasPaidPayment", ctx, order.ID).Return(false, nil)
	m.paymentRepo.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil)
	m.gateway.On("RequestCollection", ctx, mock.MatchedBy(func(req *service.CollectionRequest) bool {
		return req.PhoneNumber == "+256700000001" && req.Amount == 8500 && req.Currency == "UGX"
	})).Return(&service.CollectionResponse{RemoteID: "rt-1", Status: "pending"}, nil)

	payment, err := srv.InitiatePayment(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)
	assert.Equal(t, order.ID, payment.OrderID)
}

func TestPaymentService_InitiatePayment_GatewayFailureLeavesPending(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	input := &usecase.InitiatePaymentInput{
		OrderID:         order.ID,
		CustomerID:      *order.CustomerID,
		Amount:          8500,
		Method:          entity.PaymentMethodMobileMoney,
		MomoPhoneNumber: "+256700000001",
	}

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.paymentRepo.On("HasPaidPayment", ctx, order.ID).Return(false, nil)
	m.paymentRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.gateway.On("RequestCollection", ctx, mock.Anything).
		Return(nil, errors.New("connection refused"))

	payment, err := srv.InitiatePayment(ctx, input)
	assert.Nil(t, payment)
	assert.ErrorIs(t, err, domainerrors.ErrGateway)
	// The pending row was still created so the attempt can be retried.
	m.paymentRepo.AssertCalled(t, "Create", ctx, mock.Anything)
}

func TestPaymentService_InitiatePayment_AlreadyPaid(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	input := &usecase.InitiatePaymentInput{
		OrderID:    order.ID,
		CustomerID: *order.CustomerID,
		Amount:     8500,
		Method:     entity.PaymentMethodCash,
	}

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.paymentRepo.On("HasPaidPayment", ctx, order.ID).Return(true, nil)

	payment, err := srv.InitiatePayment(ctx, input)
	assert.Nil(t, payment)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

func TestPaymentService_InitiatePayment_TerminalOrder(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	order.Status = entity.OrderStatusCancelled
	input := &usecase.InitiatePaymentInput{
		OrderID:    order.ID,
		CustomerID: *order.CustomerID,
		Amount:     8500,
		Method:     entity.PaymentMethodCash,
	}

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	_, err := srv.InitiatePayment(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

func TestPaymentService_InitiatePayment_AmountBelowMinimum(t *testing.T) {
	srv, _ := newPaymentService(t)

	_, err := srv.InitiatePayment(context.Background(), &usecase.InitiatePaymentInput{
		OrderID:    uuid.New(),
		CustomerID: uuid.New(),
		Amount:     100,
		Method:     entity.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPaymentService_HandleGatewayWebhook_Success(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	payment := pendingPayment(order.ID)
	payload := &usecase.GatewayWebhookPayload{
		RemoteTransactionID: "rt-42",
		Status:              usecase.GatewayOutcomeSuccessful,
		Metadata:            usecase.WebhookMetadata{PaymentID: payment.ID.String()},
	}

	m.paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
	m.paymentRepo.On("SettlePaid", ctx, payment.ID, "rt-42", mock.Anything).Return(nil)
	m.orderRepo.On("AppendTracker", ctx, order.ID, entity.TrackerGoodsPurchased).
		Return(&entity.OrderTracker{Number: 2, Name: entity.TrackerGoodsPurchased}, nil)
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, payment.CustomerID.String(), entity.TrackerGoodsPurchased, mock.Anything, mock.Anything).
		Return(nil)

	require.NoError(t, srv.HandleGatewayWebhook(ctx, payload))
}

func TestPaymentService_HandleGatewayWebhook_ReplayIsIdempotent(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	payment := pendingPayment(uuid.New())
	payload := &usecase.GatewayWebhookPayload{
		RemoteTransactionID: "rt-42",
		Status:              usecase.GatewayOutcomeSuccessful,
		Metadata:            usecase.WebhookMetadata{PaymentID: payment.ID.String()},
	}

	m.paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
	m.paymentRepo.On("SettlePaid", ctx, payment.ID, "rt-42", mock.Anything).
		Return(repository.ErrPaymentNotPending)

	// No tracker, no event, no notification on a replay.
	require.NoError(t, srv.HandleGatewayWebhook(ctx, payload))
	m.orderRepo.AssertNotCalled(t, "AppendTracker", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleGatewayWebhook_Expired(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	payment := pendingPayment(uuid.New())
	payload := &usecase.GatewayWebhookPayload{
		RemoteTransactionID: "rt-9",
		Status:              usecase.GatewayOutcomeExpired,
		Metadata:            usecase.WebhookMetadata{PaymentID: payment.ID.String()},
	}

	m.paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
	m.paymentRepo.On("SettleFailed", ctx, payment.ID, entity.PaymentStatusExpired, "rt-9").Return(nil)

	require.NoError(t, srv.HandleGatewayWebhook(ctx, payload))
}

func TestPaymentService_HandleGatewayWebhook_FailedMapsToCancelled(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	payment := pendingPayment(uuid.New())
	payload := &usecase.GatewayWebhookPayload{
		RemoteTransactionID: "rt-9",
		Status:              usecase.GatewayOutcomeFailed,
		Metadata:            usecase.WebhookMetadata{PaymentID: payment.ID.String()},
	}

	m.paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
	m.paymentRepo.On("SettleFailed", ctx, payment.ID, entity.PaymentStatusCancelled, "rt-9").Return(nil)

	require.NoError(t, srv.HandleGatewayWebhook(ctx, payload))
}

func TestPaymentService_HandleGatewayWebhook_UnknownPaymentIsAcknowledged(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	missing := uuid.New()
	payload := &usecase.GatewayWebhookPayload{
		RemoteTransactionID: "rt-1",
		Status:              usecase.GatewayOutcomeSuccessful,
		Metadata:            usecase.WebhookMetadata{PaymentID: missing.String()},
	}

	m.paymentRepo.On("FindByID", ctx, missing).Return(nil, repository.ErrPaymentNotFound)

	require.NoError(t, srv.HandleGatewayWebhook(ctx, payload))
}

func TestPaymentService_HandleGatewayWebhook_Malformed(t *testing.T) {
	srv, _ := newPaymentService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		payload *usecase.GatewayWebhookPayload
	}{
		{"nil payload", nil},
		{"missing remote id", &usecase.GatewayWebhookPayload{
			Status:   usecase.GatewayOutcomeSuccessful,
			Metadata: usecase.WebhookMetadata{PaymentID: uuid.New().String()},
		}},
		{"missing correlation key", &usecase.GatewayWebhookPayload{
			RemoteTransactionID: "rt-1",
			Status:              usecase.GatewayOutcomeSuccessful,
		}},
		{"correlation key not a UUID", &usecase.GatewayWebhookPayload{
			RemoteTransactionID: "rt-1",
			Status:              usecase.GatewayOutcomeSuccessful,
			Metadata:            usecase.WebhookMetadata{PaymentID: "not-a-uuid"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := srv.HandleGatewayWebhook(ctx, tc.payload)
			assert.ErrorIs(t, err, domainerrors.ErrMalformedWebhook)
		})
	}
}

func TestPaymentService_HandleGatewayWebhook_UnknownStatus(t *testing.T) {
	srv, m := newPaymentService(t)
	ctx := context.Background()

	payment := pendingPayment(uuid.New())
	payload := &usecase.GatewayWebhookPayload{
		RemoteTransactionID: "rt-1",
		Status:              "reversed",
		Metadata:            usecase.WebhookMetadata{PaymentID: payment.ID.String()},
	}

	m.paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)

	err := srv.HandleGatewayWebhook(ctx, payload)
	assert.ErrorIs(t, err, domainerrors.ErrMalformedWebhook)
}
