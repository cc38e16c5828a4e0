package postgres

import (
	"context"
	"time"

	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"
	"konv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func fromOrderDomain(order *entity.Order) *model.OrderModel {
	orderM := &model.OrderModel{
		ID:                 order.ID,
		TrackingNumber:     order.TrackingNumber,
		Status:             order.Status.String(),
		Valid:              order.Valid,
		DeliveryMethod:     string(order.DeliveryMethod),
		DeliverySpeed:      string(order.DeliverySpeed),
		SubTotalAmount:     order.SubTotalAmount,
		DeliveryFee:        order.DeliveryFee,
		TotalAmount:        order.TotalAmount,
		ExpectedDeliveryAt: order.ExpectedDeliveryAt,
		DeliveredAt:        order.DeliveredAt,
		CustomerID:         order.CustomerID,
		DriverID:           order.DriverID,
		LocationID:         order.LocationID,
		IsCuratedList:      order.IsCuratedList,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}

	for _, item := range order.Items {
		orderM.Items = append(orderM.Items, model.OrderItemModel{
			ID:        item.ID,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Units:     item.Units,
			Valid:     item.Valid,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		})
	}

	return orderM
}

func toOrderDomain(orderM *model.OrderModel) *entity.Order {
	order := &entity.Order{
		ID:                 orderM.ID,
		TrackingNumber:     orderM.TrackingNumber,
		Status:             entity.OrderStatus(orderM.Status),
		Valid:              orderM.Valid,
		DeliveryMethod:     entity.DeliveryMethod(orderM.DeliveryMethod),
		DeliverySpeed:      entity.DeliverySpeed(orderM.DeliverySpeed),
		SubTotalAmount:     orderM.SubTotalAmount,
		DeliveryFee:        orderM.DeliveryFee,
		TotalAmount:        orderM.TotalAmount,
		ExpectedDeliveryAt: orderM.ExpectedDeliveryAt,
		DeliveredAt:        orderM.DeliveredAt,
		CustomerID:         orderM.CustomerID,
		DriverID:           orderM.DriverID,
		LocationID:         orderM.LocationID,
		IsCuratedList:      orderM.IsCuratedList,
		CreatedAt:          orderM.CreatedAt,
		UpdatedAt:          orderM.UpdatedAt,
	}

	for _, itemM := range orderM.Items {
		order.Items = append(order.Items, entity.OrderItem{
			ID:        itemM.ID,
			OrderID:   itemM.OrderID,
			ProductID: itemM.ProductID,
			Units:     itemM.Units,
			Valid:     itemM.Valid,
			CreatedAt: itemM.CreatedAt,
			UpdatedAt: itemM.UpdatedAt,
		})
	}

	return order
}

func toTrackerDomain(trackerM *model.OrderTrackerModel) *entity.OrderTracker {
	return &entity.OrderTracker{
		ID:        trackerM.ID,
		OrderID:   trackerM.OrderID,
		Number:    trackerM.Number,
		Name:      trackerM.Name,
		CreatedAt: trackerM.CreatedAt,
	}
}

// Create persists a new order together with its line items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrTrackingNumberTaken
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("order references an unknown row")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindByID retrieves an order with its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).Preload("Items").First(&orderM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// FindByTrackingNumber retrieves an order by its customer-facing reference.
func (repo *orderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).Preload("Items").
		First(&orderM, "tracking_number = ?", trackingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by tracking number")
	}

	return toOrderDomain(&orderM), nil
}

// ListByScope retrieves orders visible under the access scope, newest first.
func (repo *orderRepository) ListByScope(ctx context.Context, scope policy.OrderScope, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := repo.db.WithContext(ctx).Model(&model.OrderModel{}).Preload("Items")

	switch {
	case scope.All:
		// no visibility restriction
	case scope.CustomerID != nil:
		query = query.Where("customer_id = ? OR is_curated_list", *scope.CustomerID)
	default:
		query = query.Where("is_curated_list")
	}

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.Valid != nil {
		query = query.Where("valid = ?", *filter.Valid)
	}

	var orderModels []*model.OrderModel
	if err := query.Order("created_at DESC").Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// UpdateStatusFrom moves the order between statuses in one guarded statement.
// Zero affected rows means the order left the expected status concurrently.
func (repo *orderRepository) UpdateStatusFrom(ctx context.Context, orderID uuid.UUID, from, to entity.OrderStatus, valid bool, deliveredAt *time.Time) error {
	updates := map[string]any{
		"status": to.String(),
		"valid":  valid,
	}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from.String()).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStaleOrderStatus
	}

	return nil
}

// AssignDriver sets the driver without touching the status.
func (repo *orderRepository) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", orderID).
		Update("driver_id", driverID)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to assign driver")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// AppendTracker records a lifecycle event numbered one past the current
// maximum for the order. The composite unique index turns a concurrent append
// of the same number into ErrTrackerNumberConflict.
func (repo *orderRepository) AppendTracker(ctx context.Context, orderID uuid.UUID, name string) (*entity.OrderTracker, error) {
	var maxNumber int
	err := repo.db.WithContext(ctx).
		Model(&model.OrderTrackerModel{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&maxNumber).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tracker high watermark")
	}

	trackerM := &model.OrderTrackerModel{
		ID:        uuid.New(),
		OrderID:   orderID,
		Number:    maxNumber + 1,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := repo.db.WithContext(ctx).Create(trackerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, repository.ErrTrackerNumberConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to append order tracker")
	}

	return toTrackerDomain(trackerM), nil
}

// ListTrackers returns the order's event trail ordered by number.
func (repo *orderRepository) ListTrackers(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderTracker, error) {
	var trackerModels []*model.OrderTrackerModel
	if err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("number").
		Find(&trackerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list order trackers")
	}

	trackers := make([]*entity.OrderTracker, 0, len(trackerModels))
	for _, trackerM := range trackerModels {
		trackers = append(trackers, toTrackerDomain(trackerM))
	}

	return trackers, nil
}

// LastTracker returns the most recent tracker for the order, or nil without
// error when the order has no trail yet.
func (repo *orderRepository) LastTracker(ctx context.Context, orderID uuid.UUID) (*entity.OrderTracker, error) {
	var trackerM model.OrderTrackerModel
	err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("number DESC").
		First(&trackerM).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find last order tracker")
	}

	return toTrackerDomain(&trackerM), nil
}

// SetItemValid flips the soft-invalidation flag on a line item.
func (repo *orderRepository) SetItemValid(ctx context.Context, orderID, itemID uuid.UUID, valid bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderItemModel{}).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Update("valid", valid)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderItemNotFound
	}

	return nil
}
