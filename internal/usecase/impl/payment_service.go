package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"konv/config"
	deliverycontext "konv/internal/delivery/context"
	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/repository"
	"konv/internal/domain/service"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// paymentService implements the PaymentUsecase interface.
type paymentService struct {
	txManager   repository.TransactionManager
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	gateway     service.CollectionGateway
	publisher   service.EventPublisher
	notifier    service.NotificationService
	currency    string
	logger      *slog.Logger
}

// PaymentServiceParams holds dependencies for paymentService, injected by Fx.
type PaymentServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	PaymentRepo repository.PaymentRepository
	OrderRepo   repository.OrderRepository
	Gateway     service.CollectionGateway
	Publisher   service.EventPublisher
	Notifier    service.NotificationService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(params PaymentServiceParams) usecase.PaymentUsecase {
	currency := ""
	if params.Config != nil && params.Config.Beyonic != nil {
		currency = params.Config.Beyonic.Currency
	}

	return &paymentService{
		txManager:   params.TxManager,
		paymentRepo: params.PaymentRepo,
		orderRepo:   params.OrderRepo,
		gateway:     params.Gateway,
		publisher:   params.Publisher,
		notifier:    params.Notifier,
		currency:    currency,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// InitiatePayment records a pending payment and, for mobile money, submits a
// collection request to the gateway. The gateway call happens after the
// payment row is committed so the webhook always finds its target; a gateway
// failure leaves the payment pending for a later retry.
func (srv *paymentService) InitiatePayment(ctx context.Context, input *usecase.InitiatePaymentInput) (*entity.Payment, error) {
	if err := validateInitiatePaymentInput(input); err != nil {
		return nil, err
	}

	order, err := srv.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("order not found")
		}

		return nil, errors.Wrap(err, "failed to find order for payment")
	}
	if order.Status != entity.OrderStatusPlaced {
		return nil, domainerrors.ErrInvalidState.WrapMessage("order no longer accepts payments")
	}

	paid, err := srv.paymentRepo.HasPaidPayment(ctx, input.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing payments")
	}
	if paid {
		return nil, domainerrors.ErrInvalidState.WrapMessage("order is already paid")
	}

	now := time.Now()
	payment := &entity.Payment{
		ID:              uuid.New(),
		OrderID:         input.OrderID,
		CustomerID:      input.CustomerID,
		Amount:          input.Amount,
		Status:          entity.PaymentStatusPending,
		Method:          input.Method,
		MomoPhoneNumber: input.MomoPhoneNumber,
		CardNumber:      input.CardNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := srv.paymentRepo.Create(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "failed to create payment")
	}

	if input.Method == entity.PaymentMethodMobileMoney {
		resp, err := srv.gateway.RequestCollection(ctx, &service.CollectionRequest{
			PhoneNumber: input.MomoPhoneNumber,
			Amount:      input.Amount,
			Currency:    srv.currency,
			Description: "Order " + order.TrackingNumber,
			PaymentID:   payment.ID,
		})
		if err != nil {
			srv.log(ctx).Error("Collection request failed",
				slog.Any("paymentID", payment.ID), slog.Any("error", err))

			return nil, domainerrors.ErrGateway.WrapMessage("collection request failed")
		}

		srv.log(ctx).Info("Collection request accepted",
			slog.Any("paymentID", payment.ID),
			slog.String("remoteID", resp.RemoteID),
			slog.String("remoteStatus", resp.Status))
	}

	return payment, nil
}

// GetPayment returns a single payment.
func (srv *paymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*entity.Payment, error) {
	payment, err := srv.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("payment not found")
		}

		return nil, errors.Wrap(err, "failed to find payment")
	}

	return payment, nil
}

// ListOrderPayments returns every payment attempt against an order.
func (srv *paymentService) ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error) {
	payments, err := srv.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order payments")
	}

	return payments, nil
}

// HandleGatewayWebhook reconciles an asynchronous gateway callback against the
// payment it references. Settled payments absorb replays without change; a
// callback for a payment this system never issued is logged and acknowledged
// so the gateway stops retrying.
func (srv *paymentService) HandleGatewayWebhook(ctx context.Context, payload *usecase.GatewayWebhookPayload) error {
	paymentID, err := parseWebhookPayload(payload)
	if err != nil {
		return err
	}

	payment, err := srv.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			srv.log(ctx).Warn("Webhook for unknown payment, acknowledging",
				slog.Any("paymentID", paymentID),
				slog.String("remoteTransactionID", payload.RemoteTransactionID))

			return nil
		}

		return errors.Wrap(err, "failed to find payment for webhook")
	}

	switch payload.Status {
	case usecase.GatewayOutcomeSuccessful:
		return srv.settleSuccess(ctx, payment, payload.RemoteTransactionID)
	case usecase.GatewayOutcomeFailed, usecase.GatewayOutcomeCancelled:
		return srv.settleFailure(ctx, payment, entity.PaymentStatusCancelled, payload.RemoteTransactionID)
	case usecase.GatewayOutcomeExpired:
		return srv.settleFailure(ctx, payment, entity.PaymentStatusExpired, payload.RemoteTransactionID)
	default:
		return domainerrors.ErrMalformedWebhook.WrapMessage(
			fmt.Sprintf("unknown gateway status %q", payload.Status))
	}
}

// settleSuccess marks the payment paid and appends the purchase tracker to
// the order, atomically. A payment that already left pending is a replay.
func (srv *paymentService) settleSuccess(ctx context.Context, payment *entity.Payment, remoteTransactionID string) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.Payments().SettlePaid(ctx, payment.ID, remoteTransactionID, time.Now()); err != nil {
			return err
		}
		if _, err := repoFactory.Orders().AppendTracker(ctx, payment.OrderID, entity.TrackerGoodsPurchased); err != nil {
			return errors.Wrap(err, "failed to record purchase tracker")
		}

		return nil
	})
	if errors.Is(err, repository.ErrPaymentNotPending) || errors.Is(err, repository.ErrDuplicateRemoteTransaction) {
		srv.log(ctx).Info("Webhook replay for settled payment, acknowledging",
			slog.Any("paymentID", payment.ID),
			slog.String("remoteTransactionID", remoteTransactionID))

		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to settle payment as paid")
	}

	srv.log(ctx).Info("Payment settled",
		slog.Any("paymentID", payment.ID),
		slog.String("remoteTransactionID", remoteTransactionID))

	srv.announcePurchase(ctx, payment)

	return nil
}

// settleFailure records a denied or expired collection. Failed outcomes leave
// no trace on the order trail.
func (srv *paymentService) settleFailure(ctx context.Context, payment *entity.Payment, status entity.PaymentStatus, remoteTransactionID string) error {
	err := srv.paymentRepo.SettleFailed(ctx, payment.ID, status, remoteTransactionID)
	if errors.Is(err, repository.ErrPaymentNotPending) {
		srv.log(ctx).Info("Webhook replay for settled payment, acknowledging",
			slog.Any("paymentID", payment.ID),
			slog.String("remoteTransactionID", remoteTransactionID))

		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to settle payment as failed")
	}

	srv.log(ctx).Info("Payment closed without collection",
		slog.Any("paymentID", payment.ID), slog.Any("status", status))

	return nil
}

// announcePurchase publishes the purchase event and notifies the customer,
// best effort.
func (srv *paymentService) announcePurchase(ctx context.Context, payment *entity.Payment) {
	order, err := srv.orderRepo.FindByID(ctx, payment.OrderID)
	if err != nil {
		srv.log(ctx).Warn("Failed to load order after settlement",
			slog.Any("orderID", payment.OrderID), slog.Any("error", err))

		return
	}

	event := &service.OrderEvent{
		OrderID:        order.ID.String(),
		TrackingNumber: order.TrackingNumber,
		CustomerID:     payment.CustomerID.String(),
		Status:         order.Status.String(),
		TrackerName:    entity.TrackerGoodsPurchased,
		OccurredAt:     time.Now(),
	}
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish purchase event", slog.Any("orderID", order.ID), slog.Any("error", err))
	}

	data := map[string]string{
		"order_id":        order.ID.String(),
		"tracking_number": order.TrackingNumber,
	}
	if err := srv.notifier.NotifyCustomer(ctx, payment.CustomerID.String(),
		entity.TrackerGoodsPurchased, "Your payment was received.", data); err != nil {
		srv.log(ctx).Warn("Failed to notify customer", slog.Any("orderID", order.ID), slog.Any("error", err))
	}
}

// parseWebhookPayload extracts the correlation key. Anything structurally
// unusable is malformed; the handler turns that into a client error so the
// gateway sees its payload was understood but rejected.
func parseWebhookPayload(payload *usecase.GatewayWebhookPayload) (uuid.UUID, error) {
	if payload == nil {
		return uuid.Nil, domainerrors.ErrMalformedWebhook.WrapMessage("empty webhook payload")
	}
	if payload.RemoteTransactionID == "" {
		return uuid.Nil, domainerrors.ErrMalformedWebhook.WrapMessage("missing remote transaction id")
	}
	if payload.Metadata.PaymentID == "" {
		return uuid.Nil, domainerrors.ErrMalformedWebhook.WrapMessage("missing payment correlation key")
	}

	paymentID, err := uuid.Parse(payload.Metadata.PaymentID)
	if err != nil {
		return uuid.Nil, domainerrors.ErrMalformedWebhook.WrapMessage("payment correlation key is not a UUID")
	}

	return paymentID, nil
}

func validateInitiatePaymentInput(input *usecase.InitiatePaymentInput) error {
	if !input.Method.IsValid() {
		return domainerrors.ErrValidation.WrapMessage("unknown payment method")
	}
	if input.Amount < entity.MinPaymentAmount {
		return domainerrors.ErrValidation.WrapMessage(
			fmt.Sprintf("payment amount below the %d minimum", entity.MinPaymentAmount))
	}
	if input.Method == entity.PaymentMethodMobileMoney && !entity.ValidPhone(input.MomoPhoneNumber) {
		return domainerrors.ErrValidation.WrapMessage("mobile money payments need a valid phone number")
	}
	if input.Method == entity.PaymentMethodCard && input.CardNumber == "" {
		return domainerrors.ErrValidation.WrapMessage("card payments need a card number")
	}

	return nil
}
