package impl

import (
	"testing"

	"konv/config"
	"konv/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestFlatFeeQuoter_Quote(t *testing.T) {
	cfg := &config.Config{Orders: &config.OrdersConfig{DefaultDeliveryFee: 7000}}
	quoter := NewFlatFeeQuoter(cfg)

	assert.Equal(t, int64(7000), quoter.Quote(entity.DeliveryMethodVehicle, entity.DeliverySpeedOrdinary))
	assert.Equal(t, int64(7000), quoter.Quote(entity.DeliveryMethodMotorcycle, entity.DeliverySpeedExpress))
}

func TestFlatFeeQuoter_PickupChargesMinimumFee(t *testing.T) {
	quoter := NewFlatFeeQuoter(nil)

	fee := quoter.Quote(entity.DeliveryMethodPickup, entity.DeliverySpeedOrdinary)
	assert.GreaterOrEqual(t, fee, entity.MinDeliveryFee)
}

func TestFlatFeeQuoter_DefaultsWhenUnconfigured(t *testing.T) {
	quoter := NewFlatFeeQuoter(nil)

	assert.Equal(t, entity.MinDeliveryFee, quoter.Quote(entity.DeliveryMethodVehicle, entity.DeliverySpeedOrdinary))
}
