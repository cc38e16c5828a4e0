package postgres

import (
	"testing"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/infra/persistence/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database with the full schema.
// TranslateError keeps constraint mapping consistent with the production
// driver, which is what the repository tests exercise.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.UserModel{},
		&model.ContactModel{},
		&model.DistrictModel{},
		&model.LocationModel{},
		&model.CategoryModel{},
		&model.ShopModel{},
		&model.ProductModel{},
		&model.StockModel{},
		&model.AnnouncementModel{},
		&model.OrderModel{},
		&model.OrderItemModel{},
		&model.OrderTrackerModel{},
		&model.PaymentModel{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:           uuid.New(),
		Phone:        "+2567" + uuid.NewString()[:8],
		PasswordHash: "$2a$10$" + uuid.NewString()[:22],
		Role:         role,
		Verified:     true,
	}
	require.NoError(t, db.Create(fromUserDomain(user)).Error)

	return user
}

func seedOrder(t *testing.T, db *gorm.DB, customerID *uuid.UUID, trackingNumber string) *entity.Order {
	t.Helper()

	order := &entity.Order{
		ID:             uuid.New(),
		TrackingNumber: trackingNumber,
		Status:         entity.OrderStatusPlaced,
		Valid:          true,
		DeliveryMethod: entity.DeliveryMethodMotorcycle,
		DeliverySpeed:  entity.DeliverySpeedOrdinary,
		SubTotalAmount: 3000,
		DeliveryFee:    entity.MinDeliveryFee,
		TotalAmount:    3000 + entity.MinDeliveryFee,
		CustomerID:     customerID,
		IsCuratedList:  customerID == nil,
		Items: []entity.OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Units: 2, Valid: true},
		},
	}
	require.NoError(t, db.Create(fromOrderDomain(order)).Error)

	return order
}

func seedPayment(t *testing.T, db *gorm.DB, orderID, customerID uuid.UUID, status entity.PaymentStatus) *entity.Payment {
	t.Helper()

	payment := &entity.Payment{
		ID:              uuid.New(),
		OrderID:         orderID,
		CustomerID:      customerID,
		Amount:          3000,
		Status:          status,
		Method:          entity.PaymentMethodMobileMoney,
		MomoPhoneNumber: "+256700000001",
		CreatedAt:       time.Now(),
	}
	require.NoError(t, db.Create(fromPaymentDomain(payment)).Error)

	return payment
}
