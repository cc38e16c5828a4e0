// Package policy decides which orders, locations and contacts a caller may
// see. Decisions are pure functions of the actor so they can be tested without
// any transport or storage in place.
package policy

import (
	"konv/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated principal a request acts as. The zero value is an
// unauthenticated caller.
type Actor struct {
	ID            uuid.UUID
	Role          entity.Role
	Authenticated bool
}

// OrderScope limits an order listing. Exactly one of the three shapes applies:
// unrestricted, own-plus-curated, or curated-only.
type OrderScope struct {
	All         bool
	CustomerID  *uuid.UUID // Orders owned by this customer are visible.
	CuratedOnly bool       // Only curated-list orders are visible.
}

// OwnerScope limits a listing of customer-owned rows (locations, contacts).
// When neither All nor CustomerID is set the result set is empty.
type OwnerScope struct {
	All        bool
	CustomerID *uuid.UUID
}

// ForOrders returns the order visibility scope for the actor. Any failure to
// establish a trusted role resolves to the curated-list-only subset: private
// orders are never exposed on a policy evaluation error.
func ForOrders(actor Actor) OrderScope {
	if !actor.Authenticated || !actor.Role.IsValid() {
		return OrderScope{CuratedOnly: true}
	}

	if actor.Role == entity.RoleCustomer {
		id := actor.ID

		return OrderScope{CustomerID: &id}
	}

	if actor.Role.IsStaff() {
		return OrderScope{All: true}
	}

	return OrderScope{CuratedOnly: true}
}

// ForOwned returns the visibility scope for customer-owned rows. Customers see
// only their own; staff roles see everything; anyone else sees nothing.
func ForOwned(actor Actor) OwnerScope {
	if !actor.Authenticated || !actor.Role.IsValid() {
		return OwnerScope{}
	}

	if actor.Role == entity.RoleCustomer {
		id := actor.ID

		return OwnerScope{CustomerID: &id}
	}

	if actor.Role.IsStaff() {
		return OwnerScope{All: true}
	}

	return OwnerScope{}
}

// CanSeeOrder reports whether the actor may read a single order.
func CanSeeOrder(actor Actor, order *entity.Order) bool {
	if order == nil {
		return false
	}
	if order.IsCuratedList {
		return true
	}

	scope := ForOrders(actor)
	if scope.All {
		return true
	}
	if scope.CustomerID != nil && order.CustomerID != nil {
		return *scope.CustomerID == *order.CustomerID
	}

	return false
}
