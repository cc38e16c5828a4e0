package postgres

import (
	"context"
	"testing"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_CreateAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	order := &entity.Order{
		ID:             uuid.New(),
		TrackingNumber: "10000001",
		Status:         entity.OrderStatusPlaced,
		Valid:          true,
		DeliveryMethod: entity.DeliveryMethodVehicle,
		DeliverySpeed:  entity.DeliverySpeedExpress,
		SubTotalAmount: 2000,
		DeliveryFee:    500,
		TotalAmount:    2500,
		CustomerID:     &customer.ID,
		Items: []entity.OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Units: 4, Valid: true},
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000001", found.TrackingNumber)
	assert.Equal(t, entity.OrderStatusPlaced, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 4, found.Items[0].Units)

	byNumber, err := repo.FindByTrackingNumber(ctx, "10000001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)
}

func TestOrderRepository_TrackingNumberCollision(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	seedOrder(t, db, &customer.ID, "20000002")

	duplicate := &entity.Order{
		ID:             uuid.New(),
		TrackingNumber: "20000002",
		Status:         entity.OrderStatusPlaced,
		Valid:          true,
		DeliveryMethod: entity.DeliveryMethodMotorcycle,
		DeliverySpeed:  entity.DeliverySpeedOrdinary,
		SubTotalAmount: 1000,
		DeliveryFee:    500,
		TotalAmount:    1500,
		CustomerID:     &customer.ID,
	}

	err := repo.Create(ctx, duplicate)
	assert.ErrorIs(t, err, repository.ErrTrackingNumberTaken)
}

func TestOrderRepository_UpdateStatusFrom(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	order := seedOrder(t, db, &customer.ID, "30000003")

	err := repo.UpdateStatusFrom(ctx, order.ID, entity.OrderStatusPlaced, entity.OrderStatusCancelled, false, nil)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, found.Status)
	assert.False(t, found.Valid)

	// The order already left placed, so the same guarded update misses.
	err = repo.UpdateStatusFrom(ctx, order.ID, entity.OrderStatusPlaced, entity.OrderStatusDelivered, true, nil)
	assert.ErrorIs(t, err, repository.ErrStaleOrderStatus)
}

func TestOrderRepository_UpdateStatusFrom_SetsDeliveredAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	order := seedOrder(t, db, &customer.ID, "30000004")
	deliveredAt := time.Now().Truncate(time.Second)

	err := repo.UpdateStatusFrom(ctx, order.ID, entity.OrderStatusPlaced, entity.OrderStatusDelivered, true, &deliveredAt)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, found.Status)
	assert.True(t, found.Valid)
	require.NotNil(t, found.DeliveredAt)
	assert.WithinDuration(t, deliveredAt, *found.DeliveredAt, time.Second)
}

func TestOrderRepository_AppendTracker_Sequence(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	order := seedOrder(t, db, &customer.ID, "40000004")

	first, err := repo.AppendTracker(ctx, order.ID, entity.TrackerOrderPlaced)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)

	second, err := repo.AppendTracker(ctx, order.ID, entity.TrackerGoodsPurchased)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)

	trackers, err := repo.ListTrackers(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, trackers, 2)
	assert.Equal(t, entity.TrackerOrderPlaced, trackers[0].Name)
	assert.Equal(t, entity.TrackerGoodsPurchased, trackers[1].Name)

	last, err := repo.LastTracker(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, last.Number)
}

func TestOrderRepository_AppendTracker_NumberConflict(t *testing.T) {
	db := openTestDB(t)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	order := seedOrder(t, db, &customer.ID, "40000005")

	// Two transactions that both read the same high watermark insert the
	// same number; the composite unique index rejects the second.
	repo := NewOrderRepository(db)
	_, err := repo.AppendTracker(ctx, order.ID, entity.TrackerOrderPlaced)
	require.NoError(t, err)

	err = db.Exec(
		"INSERT INTO order_trackers (id, order_id, number, name, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.New(), order.ID, 1, entity.TrackerOrderCancelled, time.Now(),
	).Error
	require.Error(t, err)
}

func TestOrderRepository_LastTracker_EmptyTrail(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	order := seedOrder(t, db, &customer.ID, "50000005")

	last, err := repo.LastTracker(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestOrderRepository_ListByScope(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	alice := seedUser(t, db, entity.RoleCustomer)
	bob := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	own := seedOrder(t, db, &alice.ID, "60000006")
	seedOrder(t, db, &bob.ID, "60000007")
	curated := seedOrder(t, db, nil, "60000008")

	t.Run("customer sees own plus curated", func(t *testing.T) {
		orders, err := repo.ListByScope(ctx, policy.OrderScope{CustomerID: &alice.ID}, repository.OrderFilter{})
		require.NoError(t, err)
		require.Len(t, orders, 2)

		ids := []uuid.UUID{orders[0].ID, orders[1].ID}
		assert.Contains(t, ids, own.ID)
		assert.Contains(t, ids, curated.ID)
	})

	t.Run("default scope sees curated only", func(t *testing.T) {
		orders, err := repo.ListByScope(ctx, policy.OrderScope{}, repository.OrderFilter{})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, curated.ID, orders[0].ID)
	})

	t.Run("staff scope sees all", func(t *testing.T) {
		orders, err := repo.ListByScope(ctx, policy.OrderScope{All: true}, repository.OrderFilter{})
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("status filter applies within scope", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatusFrom(ctx, own.ID, entity.OrderStatusPlaced, entity.OrderStatusCancelled, false, nil))

		cancelled := entity.OrderStatusCancelled
		orders, err := repo.ListByScope(ctx, policy.OrderScope{All: true}, repository.OrderFilter{Status: &cancelled})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, own.ID, orders[0].ID)
	})
}

func TestOrderRepository_AssignDriver(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	driver := seedUser(t, db, entity.RoleDriver)
	ctx := context.Background()

	order := seedOrder(t, db, &customer.ID, "70000007")

	require.NoError(t, repo.AssignDriver(ctx, order.ID, driver.ID))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.DriverID)
	assert.Equal(t, driver.ID, *found.DriverID)

	err = repo.AssignDriver(ctx, uuid.New(), driver.ID)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderRepository_SetItemValid(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	order := seedOrder(t, db, &customer.ID, "80000008")

	require.NoError(t, repo.SetItemValid(ctx, order.ID, order.Items[0].ID, false))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.False(t, found.Items[0].Valid)

	err = repo.SetItemValid(ctx, order.ID, uuid.New(), false)
	assert.ErrorIs(t, err, repository.ErrOrderItemNotFound)
}
