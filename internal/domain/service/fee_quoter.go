package service

import "konv/internal/domain/entity"

// DeliveryFeeQuoter prices the delivery of an order. The production policy is
// a flat default fee; distance- or zone-based pricing can be swapped in
// without touching the order service.
type DeliveryFeeQuoter interface {
	// Quote returns the delivery fee in currency minor units.
	Quote(method entity.DeliveryMethod, speed entity.DeliverySpeed) int64
}

// TrackingCodeRenderer renders a customer-facing tracking reference as a
// scannable image.
type TrackingCodeRenderer interface {
	// RenderPNG returns a PNG image encoding the tracking number.
	RenderPNG(trackingNumber string) ([]byte, error)
}
