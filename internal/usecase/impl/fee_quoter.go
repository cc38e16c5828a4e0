package impl

import (
	"konv/config"
	"konv/internal/domain/entity"
	"konv/internal/domain/service"
)

// flatFeeQuoter prices every delivery at the configured flat fee. Pickup
// orders are charged the minimum fee; no quote goes below it.
type flatFeeQuoter struct {
	fee int64
}

// NewFlatFeeQuoter is the constructor for flatFeeQuoter.
func NewFlatFeeQuoter(cfg *config.Config) service.DeliveryFeeQuoter {
	fee := entity.MinDeliveryFee
	if cfg != nil && cfg.Orders != nil && cfg.Orders.DefaultDeliveryFee > 0 {
		fee = cfg.Orders.DefaultDeliveryFee
	}

	return &flatFeeQuoter{fee: fee}
}

// Quote returns the delivery fee in currency minor units.
func (q *flatFeeQuoter) Quote(method entity.DeliveryMethod, _ entity.DeliverySpeed) int64 {
	if method == entity.DeliveryMethodPickup {
		return entity.MinDeliveryFee
	}

	return q.fee
}
