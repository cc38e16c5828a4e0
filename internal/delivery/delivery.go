// Package delivery defines the contract every transport front end satisfies.
package delivery

import "context"

// Delivery is a serving surface (HTTP today, workers tomorrow) started by the
// application container.
type Delivery interface {
	// Serve blocks until the delivery stops or fails.
	Serve(ctx context.Context) error
}
