package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"
	mockRepo "konv/internal/mocks/repository"
	mockSvc "konv/internal/mocks/service"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceMocks struct {
	orderRepo   *mockRepo.MockOrderRepository
	productRepo *mockRepo.MockProductRepository
	userRepo    *mockRepo.MockUserRepository
	feeQuoter   *mockSvc.MockDeliveryFeeQuoter
	renderer    *mockSvc.MockTrackingCodeRenderer
	publisher   *mockSvc.MockEventPublisher
	notifier    *mockSvc.MockNotificationService
}

func newOrderService(t *testing.T) (usecase.OrderUsecase, *orderServiceMocks) {
	m := &orderServiceMocks{
		orderRepo:   mockRepo.NewMockOrderRepository(t),
		productRepo: mockRepo.NewMockProductRepository(t),
		userRepo:    mockRepo.NewMockUserRepository(t),
		feeQuoter:   mockSvc.NewMockDeliveryFeeQuoter(t),
		renderer:    mockSvc.NewMockTrackingCodeRenderer(t),
		publisher:   mockSvc.NewMockEventPublisher(t),
		notifier:    mockSvc.NewMockNotificationService(t),
	}

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{OrderRepo: m.orderRepo},
	}

	srv := NewOrderService(OrderServiceParams{
		TxManager:   txManager,
		OrderRepo:   m.orderRepo,
		ProductRepo: m.productRepo,
		UserRepo:    m.userRepo,
		FeeQuoter:   m.feeQuoter,
		Renderer:    m.renderer,
		Publisher:   m.publisher,
		Notifier:    m.notifier,
		Logger:      slog.Default(),
	})

	return srv, m
}

func placedOrder(customerID uuid.UUID) *entity.Order {
	return &entity.Order{
		ID:             uuid.New(),
		TrackingNumber: "12345678",
		Status:         entity.OrderStatusPlaced,
		Valid:          true,
		CustomerID:     &customerID,
	}
}

func TestOrderService_CreateOrder_Totals(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	productA := &entity.Product{ID: uuid.New(), Price: 1000}
	productB := &entity.Product{ID: uuid.New(), Price: 1500}

	input := &usecase.CreateOrderInput{
		CustomerID:     &customerID,
		DeliveryMethod: entity.DeliveryMethodMotorcycle,
		DeliverySpeed:  entity.DeliverySpeedOrdinary,
		Items: []usecase.OrderItemInput{
			{ProductID: productA.ID, Units: 2},
			{ProductID: productB.ID, Units: 1},
		},
	}

	m.productRepo.On("FindByIDs", ctx, mock.Anything).
		Return(map[uuid.UUID]*entity.Product{productA.ID: productA, productB.ID: productB}, nil)
	m.feeQuoter.On("Quote", entity.DeliveryMethodMotorcycle, entity.DeliverySpeedOrdinary).
		Return(int64(5000))
	m.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	m.orderRepo.On("AppendTracker", ctx, mock.Anything, entity.TrackerOrderPlaced).
		Return(&entity.OrderTracker{Number: 1, Name: entity.TrackerOrderPlaced}, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, customerID.String(), entity.TrackerOrderPlaced, mock.Anything, mock.Anything).
		Return(nil)

	view, err := srv.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), view.SubTotalAmount)
	assert.Equal(t, int64(5000), view.DeliveryFee)
	assert.Equal(t, int64(8500), view.TotalAmount)
	assert.Equal(t, entity.OrderStatusPlaced, view.Status)
	assert.Len(t, view.TrackingNumber, entity.TrackingNumberLength)
	assert.Equal(t, entity.TrackerOrderPlaced, view.LastTrackerStatus)
	assert.Len(t, view.Items, 2)
}

func TestOrderService_CreateOrder_DiscountedTotals(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), Price: 1000, Discount: 25}

	input := &usecase.CreateOrderInput{
		CustomerID:     &customerID,
		DeliveryMethod: entity.DeliveryMethodVehicle,
		DeliverySpeed:  entity.DeliverySpeedExpress,
		Items:          []usecase.OrderItemInput{{ProductID: product.ID, Units: 2}},
	}

	m.productRepo.On("FindByIDs", ctx, mock.Anything).
		Return(map[uuid.UUID]*entity.Product{product.ID: product}, nil)
	m.feeQuoter.On("Quote", entity.DeliveryMethodVehicle, entity.DeliverySpeedExpress).
		Return(int64(5000))
	m.orderRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.orderRepo.On("AppendTracker", ctx, mock.Anything, entity.TrackerOrderPlaced).
		Return(&entity.OrderTracker{Number: 1}, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, customerID.String(), mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	view, err := srv.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), view.SubTotalAmount) // 750 each after 25% off
	assert.Equal(t, int64(6500), view.TotalAmount)
}

func TestOrderService_CreateOrder_FloorsDeliveryFee(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), Price: 1000}

	input := &usecase.CreateOrderInput{
		CustomerID:     &customerID,
		DeliveryMethod: entity.DeliveryMethodPickup,
		DeliverySpeed:  entity.DeliverySpeedOrdinary,
		Items:          []usecase.OrderItemInput{{ProductID: product.ID, Units: 1}},
	}

	m.productRepo.On("FindByIDs", ctx, mock.Anything).
		Return(map[uuid.UUID]*entity.Product{product.ID: product}, nil)
	m.feeQuoter.On("Quote", entity.DeliveryMethodPickup, entity.DeliverySpeedOrdinary).
		Return(int64(0))
	m.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	m.orderRepo.On("AppendTracker", ctx, mock.Anything, entity.TrackerOrderPlaced).
		Return(&entity.OrderTracker{Number: 1, Name: entity.TrackerOrderPlaced}, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, customerID.String(), entity.TrackerOrderPlaced, mock.Anything, mock.Anything).
		Return(nil)

	view, err := srv.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, entity.MinDeliveryFee, view.DeliveryFee)
	assert.Equal(t, view.SubTotalAmount+entity.MinDeliveryFee, view.TotalAmount)
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	input := &usecase.CreateOrderInput{
		CustomerID:     &customerID,
		DeliveryMethod: entity.DeliveryMethodVehicle,
		DeliverySpeed:  entity.DeliverySpeedOrdinary,
		Items:          []usecase.OrderItemInput{{ProductID: uuid.New(), Units: 1}},
	}

	m.productRepo.On("FindByIDs", ctx, mock.Anything).
		Return(map[uuid.UUID]*entity.Product{}, nil)

	view, err := srv.CreateOrder(ctx, input)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestOrderService_CreateOrder_BelowMinimum(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), Price: 500, Discount: 50}
	input := &usecase.CreateOrderInput{
		CustomerID:     &customerID,
		DeliveryMethod: entity.DeliveryMethodVehicle,
		DeliverySpeed:  entity.DeliverySpeedOrdinary,
		Items:          []usecase.OrderItemInput{{ProductID: product.ID, Units: 1}},
	}

	m.productRepo.On("FindByIDs", ctx, mock.Anything).
		Return(map[uuid.UUID]*entity.Product{product.ID: product}, nil)

	view, err := srv.CreateOrder(ctx, input)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestOrderService_CreateOrder_RegeneratesTrackingNumberOnCollision(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), Price: 1000}
	input := &usecase.CreateOrderInput{
		CustomerID:     &customerID,
		DeliveryMethod: entity.DeliveryMethodVehicle,
		DeliverySpeed:  entity.DeliverySpeedOrdinary,
		Items:          []usecase.OrderItemInput{{ProductID: product.ID, Units: 1}},
	}

	m.productRepo.On("FindByIDs", ctx, mock.Anything).
		Return(map[uuid.UUID]*entity.Product{product.ID: product}, nil)
	m.feeQuoter.On("Quote", mock.Anything, mock.Anything).Return(int64(5000))

	m.orderRepo.On("Create", ctx, mock.Anything).Return(repository.ErrTrackingNumberTaken).Once()
	m.orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	m.orderRepo.On("AppendTracker", ctx, mock.Anything, entity.TrackerOrderPlaced).
		Return(&entity.OrderTracker{Number: 1}, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	view, err := srv.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, view.TrackingNumber)
}

func TestOrderService_CancelOrder_Success(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("UpdateStatusFrom", ctx, order.ID,
		entity.OrderStatusPlaced, entity.OrderStatusCancelled, false, (*time.Time)(nil)).Return(nil)
	m.orderRepo.On("AppendTracker", ctx, order.ID, entity.TrackerOrderCancelled).
		Return(&entity.OrderTracker{Number: 2, Name: entity.TrackerOrderCancelled}, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, order.CustomerID.String(), entity.TrackerOrderCancelled, mock.Anything, mock.Anything).
		Return(nil)

	require.NoError(t, srv.CancelOrder(ctx, order.ID))
}

func TestOrderService_CancelOrder_AlreadyCancelledIsNoOp(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	order.Status = entity.OrderStatusCancelled

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	require.NoError(t, srv.CancelOrder(ctx, order.ID))
}

func TestOrderService_CancelOrder_DeliveredIsInvalid(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	order.Status = entity.OrderStatusDelivered

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	err := srv.CancelOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

func TestOrderService_CancelOrder_RetriesOnRace(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("UpdateStatusFrom", ctx, order.ID,
		entity.OrderStatusPlaced, entity.OrderStatusCancelled, false, (*time.Time)(nil)).
		Return(repository.ErrStaleOrderStatus).Once()
	m.orderRepo.On("UpdateStatusFrom", ctx, order.ID,
		entity.OrderStatusPlaced, entity.OrderStatusCancelled, false, (*time.Time)(nil)).
		Return(nil).Once()
	m.orderRepo.On("AppendTracker", ctx, order.ID, entity.TrackerOrderCancelled).
		Return(&entity.OrderTracker{Number: 2}, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	require.NoError(t, srv.CancelOrder(ctx, order.ID))
}

func TestOrderService_DeliverOrder_DefaultsDeliveredAt(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("UpdateStatusFrom", ctx, order.ID,
		entity.OrderStatusPlaced, entity.OrderStatusDelivered, true,
		mock.MatchedBy(func(ts *time.Time) bool { return ts != nil })).Return(nil)
	m.orderRepo.On("AppendTracker", ctx, order.ID, entity.TrackerOrderDelivered).
		Return(&entity.OrderTracker{Number: 2}, nil)
	m.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)
	m.notifier.On("NotifyCustomer", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	require.NoError(t, srv.DeliverOrder(ctx, order.ID, nil))
}

func TestOrderService_AssignDriver_Success(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	driver := &entity.User{ID: uuid.New(), Role: entity.RoleDriver}

	m.userRepo.On("FindByID", ctx, driver.ID).Return(driver, nil)
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("AssignDriver", ctx, order.ID, driver.ID).Return(nil)

	require.NoError(t, srv.AssignDriver(ctx, order.ID, driver.ID))
}

func TestOrderService_AssignDriver_RejectsNonDriver(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customer := &entity.User{ID: uuid.New(), Role: entity.RoleCustomer}

	m.userRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	err := srv.AssignDriver(ctx, uuid.New(), customer.ID)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestOrderService_GetOrder_ScopeMismatchReadsAsNotFound(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	actor := policy.Actor{ID: uuid.New(), Role: entity.RoleCustomer, Authenticated: true}

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	view, err := srv.GetOrder(ctx, actor, order.ID)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestOrderService_GetOrder_UsesLastTrackerLabel(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	order := placedOrder(customerID)
	actor := policy.Actor{ID: customerID, Role: entity.RoleCustomer, Authenticated: true}

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("LastTracker", ctx, order.ID).
		Return(&entity.OrderTracker{Number: 2, Name: entity.TrackerGoodsPurchased}, nil)

	view, err := srv.GetOrder(ctx, actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TrackerGoodsPurchased, view.LastTrackerStatus)
}

func TestOrderService_ListOrders_ScopesToActor(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	actor := policy.Actor{ID: customerID, Role: entity.RoleCustomer, Authenticated: true}
	order := placedOrder(customerID)

	m.orderRepo.On("ListByScope", ctx,
		mock.MatchedBy(func(scope policy.OrderScope) bool {
			return !scope.All && scope.CustomerID != nil && *scope.CustomerID == customerID
		}),
		repository.OrderFilter{}).Return([]*entity.Order{order}, nil)
	m.orderRepo.On("LastTracker", ctx, order.ID).Return(nil, nil)

	views, err := srv.ListOrders(ctx, actor, repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, entity.TrackerOrderPlaced, views[0].LastTrackerStatus)
}

func TestOrderService_TrackingQR_RendersTrackingNumber(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	customerID := uuid.New()
	order := placedOrder(customerID)
	actor := policy.Actor{ID: customerID, Role: entity.RoleCustomer, Authenticated: true}

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.renderer.On("RenderPNG", order.TrackingNumber).Return([]byte("png-bytes"), nil)

	png, err := srv.TrackingQR(ctx, actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), png)
}

func TestOrderService_InvalidateItem_NotFound(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	itemID := uuid.New()
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("SetItemValid", ctx, order.ID, itemID, false).
		Return(errors.Wrap(repository.ErrOrderItemNotFound, "update"))

	err := srv.InvalidateItem(ctx, order.ID, itemID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestOrderService_InvalidateItem_TerminalOrderRejected(t *testing.T) {
	srv, m := newOrderService(t)
	ctx := context.Background()

	order := placedOrder(uuid.New())
	order.Status = entity.OrderStatusDelivered
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	err := srv.InvalidateItem(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrInvalidState)
	m.orderRepo.AssertNotCalled(t, "SetItemValid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
