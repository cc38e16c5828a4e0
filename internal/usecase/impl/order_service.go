package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	deliverycontext "konv/internal/delivery/context"
	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"
	"konv/internal/domain/service"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	// maxTrackingNumberAttempts bounds regeneration when a generated tracking
	// number collides with an existing order.
	maxTrackingNumberAttempts = 5

	// maxTransitionRetries bounds retries when concurrent transitions race on
	// the guarded status update or the tracker number.
	maxTransitionRetries = 3
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	feeQuoter   service.DeliveryFeeQuoter
	renderer    service.TrackingCodeRenderer
	publisher   service.EventPublisher
	notifier    service.NotificationService
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	UserRepo    repository.UserRepository
	FeeQuoter   service.DeliveryFeeQuoter
	Renderer    service.TrackingCodeRenderer
	Publisher   service.EventPublisher
	Notifier    service.NotificationService
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		userRepo:    params.UserRepo,
		feeQuoter:   params.FeeQuoter,
		renderer:    params.Renderer,
		publisher:   params.Publisher,
		notifier:    params.Notifier,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder validates the items against the catalog, computes the totals,
// generates the tracking number and records the order together with its
// "Order Placed" tracker in one transaction.
func (srv *orderService) CreateOrder(ctx context.Context, input *usecase.CreateOrderInput) (*usecase.OrderView, error) {
	if err := validateCreateOrderInput(input); err != nil {
		return nil, err
	}

	subTotal, items, err := srv.priceItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if subTotal < entity.MinOrderAmount {
		return nil, domainerrors.ErrValidation.WrapMessage(
			fmt.Sprintf("order amount below the %d minimum", entity.MinOrderAmount))
	}

	deliveryFee := srv.feeQuoter.Quote(input.DeliveryMethod, input.DeliverySpeed)
	if deliveryFee < entity.MinDeliveryFee {
		deliveryFee = entity.MinDeliveryFee
	}

	now := time.Now()
	order := &entity.Order{
		ID:             uuid.New(),
		Status:         entity.OrderStatusPlaced,
		Valid:          true,
		DeliveryMethod: input.DeliveryMethod,
		DeliverySpeed:  input.DeliverySpeed,
		SubTotalAmount: subTotal,
		DeliveryFee:    deliveryFee,
		TotalAmount:    subTotal + deliveryFee,
		CustomerID:     input.CustomerID,
		LocationID:     input.LocationID,
		IsCuratedList:  input.IsCuratedList,
		Items:          items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := srv.persistWithFreshTrackingNumber(ctx, order); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.String("trackingNumber", order.TrackingNumber),
		slog.Int64("totalAmount", order.TotalAmount))

	srv.announce(ctx, order, entity.TrackerOrderPlaced, "Your order has been placed.")

	return &usecase.OrderView{Order: order, LastTrackerStatus: entity.TrackerOrderPlaced}, nil
}

// persistWithFreshTrackingNumber creates the order, regenerating the tracking
// number and retrying when the unique index reports a collision.
func (srv *orderService) persistWithFreshTrackingNumber(ctx context.Context, order *entity.Order) error {
	for attempt := 0; attempt < maxTrackingNumberAttempts; attempt++ {
		order.TrackingNumber = newTrackingNumber()

		err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			if err := repoFactory.Orders().Create(ctx, order); err != nil {
				return err
			}
			if _, err := repoFactory.Orders().AppendTracker(ctx, order.ID, entity.TrackerOrderPlaced); err != nil {
				return errors.Wrap(err, "failed to record order placed tracker")
			}

			return nil
		})
		if errors.Is(err, repository.ErrTrackingNumberTaken) {
			srv.log(ctx).Warn("Tracking number collision, regenerating",
				slog.String("trackingNumber", order.TrackingNumber))

			continue
		}
		if err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		return nil
	}

	return domainerrors.ErrDatabase.WrapMessage("tracking number generation exhausted retries")
}

// priceItems loads the referenced products and totals the discounted line
// amounts. Every referenced product must exist.
func (srv *orderService) priceItems(ctx context.Context, inputs []usecase.OrderItemInput) (int64, []entity.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.ProductID)
	}

	products, err := srv.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to load products for order")
	}

	var subTotal int64
	items := make([]entity.OrderItem, 0, len(inputs))
	now := time.Now()
	for _, item := range inputs {
		product, ok := products[item.ProductID]
		if !ok {
			return 0, nil, domainerrors.ErrValidation.WrapMessage(
				fmt.Sprintf("unknown product %s", item.ProductID))
		}

		subTotal += product.DiscountedPrice() * int64(item.Units)
		items = append(items, entity.OrderItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Units:     item.Units,
			Valid:     true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return subTotal, items, nil
}

// GetOrder returns a single order when the actor's scope allows it. Orders
// outside the scope read as not found so their existence cannot be probed.
func (srv *orderService) GetOrder(ctx context.Context, actor policy.Actor, orderID uuid.UUID) (*usecase.OrderView, error) {
	order, err := srv.visibleOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	return srv.toView(ctx, order), nil
}

// ListOrders returns orders under the actor's visibility scope.
func (srv *orderService) ListOrders(ctx context.Context, actor policy.Actor, filter repository.OrderFilter) ([]*usecase.OrderView, error) {
	orders, err := srv.orderRepo.ListByScope(ctx, policy.ForOrders(actor), filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	views := make([]*usecase.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, srv.toView(ctx, order))
	}

	return views, nil
}

// CancelOrder cancels a placed order. Cancelling an already-cancelled order is
// a no-op; any other state is an invalid transition.
func (srv *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	return srv.transition(ctx, orderID, entity.OrderStatusCancelled, nil)
}

// RejectOrder rejects a placed order.
func (srv *orderService) RejectOrder(ctx context.Context, orderID uuid.UUID) error {
	return srv.transition(ctx, orderID, entity.OrderStatusRejected, nil)
}

// DeliverOrder marks a placed order delivered.
func (srv *orderService) DeliverOrder(ctx context.Context, orderID uuid.UUID, deliveredAt *time.Time) error {
	if deliveredAt == nil {
		now := time.Now()
		deliveredAt = &now
	}

	return srv.transition(ctx, orderID, entity.OrderStatusDelivered, deliveredAt)
}

// transition moves the order into a terminal state and appends the matching
// tracker, atomically. Races on the guarded update or the tracker number are
// retried against the re-read state, which also makes repeat cancellations
// settle as no-ops.
func (srv *orderService) transition(ctx context.Context, orderID uuid.UUID, to entity.OrderStatus, deliveredAt *time.Time) error {
	var order *entity.Order

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			orders := repoFactory.Orders()

			current, err := orders.FindByID(ctx, orderID)
			if err != nil {
				if errors.Is(err, repository.ErrOrderNotFound) {
					return domainerrors.ErrNotFound.WrapMessage("order not found")
				}

				return errors.Wrap(err, "failed to find order")
			}

			if current.Status == to && to == entity.OrderStatusCancelled {
				order = nil

				return nil // already cancelled, nothing to do
			}
			if !current.Status.CanTransitionTo(to) {
				return domainerrors.ErrInvalidState.WrapMessage(
					fmt.Sprintf("cannot move order from %s to %s", current.Status, to))
			}

			// Cancelled and rejected orders are dropped from the valid set;
			// a delivered order stays valid.
			valid := to == entity.OrderStatusDelivered

			if err := orders.UpdateStatusFrom(ctx, orderID, current.Status, to, valid, deliveredAt); err != nil {
				return err
			}
			if _, err := orders.AppendTracker(ctx, orderID, to.TrackerLabel()); err != nil {
				return err
			}

			current.Status = to
			current.Valid = valid
			current.DeliveredAt = deliveredAt
			order = current

			return nil
		})
		if errors.Is(err, repository.ErrStaleOrderStatus) || errors.Is(err, repository.ErrTrackerNumberConflict) {
			srv.log(ctx).Warn("Order transition raced, retrying",
				slog.Any("orderID", orderID), slog.Any("to", to))

			continue
		}
		if err != nil {
			return err
		}

		if order != nil {
			srv.log(ctx).Info("Order transitioned", slog.Any("orderID", orderID), slog.Any("status", to))
			srv.announce(ctx, order, to.TrackerLabel(), "Your order is now "+to.String()+".")
		}

		return nil
	}

	return domainerrors.ErrInvalidState.WrapMessage("order transition kept racing, giving up")
}

// AssignDriver dispatches a driver onto the order without changing its status.
func (srv *orderService) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error {
	driver, err := srv.userRepo.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrValidation.WrapMessage("driver not found")
		}

		return errors.Wrap(err, "failed to find driver")
	}
	if driver.Role != entity.RoleDriver {
		return domainerrors.ErrValidation.WrapMessage("assignee is not a driver")
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("order not found")
		}

		return errors.Wrap(err, "failed to find order")
	}
	if order.Status != entity.OrderStatusPlaced {
		return domainerrors.ErrInvalidState.WrapMessage("only placed orders can be dispatched")
	}

	if err := srv.orderRepo.AssignDriver(ctx, orderID, driverID); err != nil {
		return errors.Wrap(err, "failed to assign driver")
	}

	srv.log(ctx).Info("Driver assigned", slog.Any("orderID", orderID), slog.Any("driverID", driverID))

	return nil
}

// ListTrackers returns the order's event trail ordered by number.
func (srv *orderService) ListTrackers(ctx context.Context, actor policy.Actor, orderID uuid.UUID) ([]*entity.OrderTracker, error) {
	if _, err := srv.visibleOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}

	trackers, err := srv.orderRepo.ListTrackers(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order trackers")
	}

	return trackers, nil
}

// InvalidateItem soft-invalidates a line item, e.g. after a stock-out.
// Terminal orders keep their items frozen.
func (srv *orderService) InvalidateItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("order not found")
		}

		return errors.Wrap(err, "failed to find order")
	}
	if order.Status != entity.OrderStatusPlaced {
		return domainerrors.ErrInvalidState.WrapMessage("items of a settled order cannot change")
	}

	if err := srv.orderRepo.SetItemValid(ctx, orderID, itemID, false); err != nil {
		if errors.Is(err, repository.ErrOrderItemNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("order item not found")
		}

		return errors.Wrap(err, "failed to invalidate order item")
	}

	return nil
}

// TrackingQR renders the order's tracking number as a PNG QR code.
func (srv *orderService) TrackingQR(ctx context.Context, actor policy.Actor, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.visibleOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.renderer.RenderPNG(order.TrackingNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render tracking code")
	}

	return png, nil
}

// visibleOrder loads an order and checks the actor may read it.
func (srv *orderService) visibleOrder(ctx context.Context, actor policy.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if !policy.CanSeeOrder(actor, order) {
		return nil, domainerrors.ErrNotFound.WrapMessage("order not found")
	}

	return order, nil
}

// toView augments an order with its customer-facing status label from the
// most recent tracker. A missing trail falls back to the raw status label.
func (srv *orderService) toView(ctx context.Context, order *entity.Order) *usecase.OrderView {
	label := order.Status.TrackerLabel()

	last, err := srv.orderRepo.LastTracker(ctx, order.ID)
	if err != nil {
		srv.log(ctx).Warn("Failed to load last tracker", slog.Any("orderID", order.ID), slog.Any("error", err))
	} else if last != nil {
		label = last.Name
	}

	return &usecase.OrderView{Order: order, LastTrackerStatus: label}
}

// announce publishes the lifecycle event and pushes a customer notification,
// both best effort.
func (srv *orderService) announce(ctx context.Context, order *entity.Order, trackerName, body string) {
	event := &service.OrderEvent{
		OrderID:        order.ID.String(),
		TrackingNumber: order.TrackingNumber,
		Status:         order.Status.String(),
		TrackerName:    trackerName,
		OccurredAt:     time.Now(),
	}
	if order.CustomerID != nil {
		event.CustomerID = order.CustomerID.String()
	}

	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.Any("orderID", order.ID), slog.Any("error", err))
	}

	if order.CustomerID != nil {
		data := map[string]string{
			"order_id":        order.ID.String(),
			"tracking_number": order.TrackingNumber,
		}
		if err := srv.notifier.NotifyCustomer(ctx, order.CustomerID.String(), trackerName, body, data); err != nil {
			srv.log(ctx).Warn("Failed to notify customer", slog.Any("orderID", order.ID), slog.Any("error", err))
		}
	}
}

func validateCreateOrderInput(input *usecase.CreateOrderInput) error {
	if !input.DeliveryMethod.IsValid() {
		return domainerrors.ErrValidation.WrapMessage("unknown delivery method")
	}
	if !input.DeliverySpeed.IsValid() {
		return domainerrors.ErrValidation.WrapMessage("unknown delivery speed")
	}
	if len(input.Items) == 0 {
		return domainerrors.ErrValidation.WrapMessage("order needs at least one item")
	}
	for _, item := range input.Items {
		if item.Units <= 0 {
			return domainerrors.ErrValidation.WrapMessage("item units must be positive")
		}
	}
	if input.CustomerID == nil && !input.IsCuratedList {
		return domainerrors.ErrValidation.WrapMessage("non-curated orders need a customer")
	}

	return nil
}

// newTrackingNumber returns a numeric reference of TrackingNumberLength
// digits, leading zeros allowed.
func newTrackingNumber() string {
	bound := 1
	for i := 0; i < entity.TrackingNumberLength; i++ {
		bound *= 10
	}

	return fmt.Sprintf("%0*d", entity.TrackingNumberLength, rand.IntN(bound))
}
