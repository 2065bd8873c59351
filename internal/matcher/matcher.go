// Package matcher selects the destination order for new sales and refunds
// among the currently open orders. It never fails: when no candidate exists
// the caller creates a fresh order.
package matcher

import (
	"github.com/google/uuid"

	"posguard/internal/model"
)

// FindDestination scans the open orders in insertion order and returns the
// best reusable candidate, or nil when a new order must be created.
//
// Candidates are "empty orders": not finalized, zero lines, zero payments.
// An exact customer+salesperson match (nil matches nil) wins immediately,
// first occurrence. Otherwise the first candidate with no customer at all is
// remembered as a generic fallback, regardless of its salesperson. The single
// forward pass with a first-seen fallback is deliberate; do not replace it
// with a ranking scheme.
func FindDestination(open []*model.Order, customerID, salespersonID *uuid.UUID) *model.Order {
	var generic *model.Order
	for _, o := range open {
		if !o.IsEmpty() {
			continue
		}
		if sameID(o.CustomerID, customerID) && sameID(o.SalespersonID, salespersonID) {
			return o
		}
		if o.CustomerID == nil && generic == nil {
			generic = o
		}
	}
	return generic
}

// PreferProvided decides whether a caller-supplied destination order should
// receive refund lines instead of running FindDestination. It is preferred
// when present, its customer matches the source order's customer, and the
// session policy does not prohibit mixing refunds with new sales.
func PreferProvided(dest, source *model.Order, noRefundWithSales bool) bool {
	return dest != nil &&
		sameID(dest.CustomerID, source.CustomerID) &&
		!noRefundWithSales
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
