package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"placed to delivered", OrderStatusPlaced, OrderStatusDelivered, true},
		{"placed to cancelled", OrderStatusPlaced, OrderStatusCancelled, true},
		{"placed to rejected", OrderStatusPlaced, OrderStatusRejected, true},
		{"placed to placed", OrderStatusPlaced, OrderStatusPlaced, false},
		{"delivered to placed", OrderStatusDelivered, OrderStatusPlaced, false},
		{"delivered to cancelled", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled to delivered", OrderStatusCancelled, OrderStatusDelivered, false},
		{"rejected to delivered", OrderStatusRejected, OrderStatusDelivered, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPlaced.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusRejected.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatus("unknown").IsTerminal())
}

func TestOrderStatus_TrackerLabel(t *testing.T) {
	assert.Equal(t, TrackerOrderPlaced, OrderStatusPlaced.TrackerLabel())
	assert.Equal(t, TrackerOrderCancelled, OrderStatusCancelled.TrackerLabel())
	assert.Equal(t, TrackerOrderRejected, OrderStatusRejected.TrackerLabel())
	assert.Equal(t, TrackerOrderDelivered, OrderStatusDelivered.TrackerLabel())
}

func TestProduct_DiscountedPrice(t *testing.T) {
	assert.Equal(t, int64(1000), (&Product{Price: 1000, Discount: 0}).DiscountedPrice())
	assert.Equal(t, int64(900), (&Product{Price: 1000, Discount: 10}).DiscountedPrice())
	// Truncation, never rounding up.
	assert.Equal(t, int64(667), (&Product{Price: 667, Discount: 0}).DiscountedPrice())
	assert.Equal(t, int64(634), (&Product{Price: 667, Discount: 5}).DiscountedPrice())
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+256756878460"))
	assert.True(t, ValidPhone("0756878460"))
	assert.False(t, ValidPhone("12345"))
	assert.False(t, ValidPhone("not-a-phone"))
	assert.False(t, ValidPhone("+256 756 878"))
}
