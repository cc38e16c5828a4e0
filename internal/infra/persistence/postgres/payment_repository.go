package postgres

import (
	"context"
	"time"

	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/repository"
	"konv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// paymentRepository implements the repository.PaymentRepository interface.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository is the constructor for paymentRepository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func fromPaymentDomain(payment *entity.Payment) *model.PaymentModel {
	return &model.PaymentModel{
		ID:                  payment.ID,
		OrderID:             payment.OrderID,
		CustomerID:          payment.CustomerID,
		Amount:              payment.Amount,
		Status:              payment.Status.String(),
		Method:              string(payment.Method),
		MomoPhoneNumber:     payment.MomoPhoneNumber,
		CardNumber:          payment.CardNumber,
		RemoteTransactionID: payment.RemoteTransactionID,
		CreatedAt:           payment.CreatedAt,
		UpdatedAt:           payment.UpdatedAt,
		PaidAt:              payment.PaidAt,
	}
}

func toPaymentDomain(paymentM *model.PaymentModel) *entity.Payment {
	return &entity.Payment{
		ID:                  paymentM.ID,
		OrderID:             paymentM.OrderID,
		CustomerID:          paymentM.CustomerID,
		Amount:              paymentM.Amount,
		Status:              entity.PaymentStatus(paymentM.Status),
		Method:              entity.PaymentMethod(paymentM.Method),
		MomoPhoneNumber:     paymentM.MomoPhoneNumber,
		CardNumber:          paymentM.CardNumber,
		RemoteTransactionID: paymentM.RemoteTransactionID,
		CreatedAt:           paymentM.CreatedAt,
		UpdatedAt:           paymentM.UpdatedAt,
		PaidAt:              paymentM.PaidAt,
	}
}

// Create persists a new payment in the pending state.
func (repo *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentM := fromPaymentDomain(payment)

	if err := repo.db.WithContext(ctx).Create(paymentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("payment references an unknown row")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment")
	}

	payment.CreatedAt = paymentM.CreatedAt
	payment.UpdatedAt = paymentM.UpdatedAt

	return nil
}

// FindByID retrieves a payment by its unique ID.
func (repo *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var paymentM model.PaymentModel
	if err := repo.db.WithContext(ctx).First(&paymentM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment by ID")
	}

	return toPaymentDomain(&paymentM), nil
}

// FindByRemoteTransactionID retrieves the payment settled under the given
// gateway transaction id.
func (repo *paymentRepository) FindByRemoteTransactionID(ctx context.Context, remoteTransactionID string) (*entity.Payment, error) {
	var paymentM model.PaymentModel
	if err := repo.db.WithContext(ctx).
		First(&paymentM, "remote_transaction_id = ?", remoteTransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment by remote transaction")
	}

	return toPaymentDomain(&paymentM), nil
}

// ListByOrder retrieves every payment attempt against an order, newest first.
func (repo *paymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error) {
	var paymentModels []*model.PaymentModel
	if err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}

	payments := make([]*entity.Payment, 0, len(paymentModels))
	for _, paymentM := range paymentModels {
		payments = append(payments, toPaymentDomain(paymentM))
	}

	return payments, nil
}

// HasPaidPayment reports whether the order already has a paid payment.
func (repo *paymentRepository) HasPaidPayment(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("order_id = ? AND status = ?", orderID, entity.PaymentStatusPaid.String()).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count paid payments")
	}

	return count > 0, nil
}

// SettlePaid moves the payment from pending to paid in one guarded statement.
// Zero affected rows means the payment already settled, which with a unique
// remote transaction id makes webhook replays harmless.
func (repo *paymentRepository) SettlePaid(ctx context.Context, paymentID uuid.UUID, remoteTransactionID string, paidAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("id = ? AND status = ?", paymentID, entity.PaymentStatusPending.String()).
		Updates(map[string]any{
			"status":                entity.PaymentStatusPaid.String(),
			"remote_transaction_id": remoteTransactionID,
			"paid_at":               paidAt,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateRemoteTransaction
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to settle payment")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentNotPending
	}

	return nil
}

// SettleFailed moves the payment from pending to a terminal failure state,
// recording the gateway transaction id for the audit trail.
func (repo *paymentRepository) SettleFailed(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus, remoteTransactionID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("id = ? AND status = ?", paymentID, entity.PaymentStatusPending.String()).
		Updates(map[string]any{
			"status":                status.String(),
			"remote_transaction_id": remoteTransactionID,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateRemoteTransaction
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to settle payment")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentNotPending
	}

	return nil
}
