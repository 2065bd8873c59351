// Package session holds the register-wide collection of open orders.
//
// The registry is intentionally not safe for concurrent use: the engine runs
// order flows on one logical thread of control, and the owning service
// serializes access (a single mutex around every flow). Only the registry and
// the order lifecycle operations may add to or remove from the collection;
// creation is atomic within one flow, with no reentrant creation in the same
// step.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"posguard/internal/model"
)

// Seeder injects the preselected product lines into a newly created order,
// synchronously, before the order is visible to any caller.
type Seeder interface {
	Seed(ctx context.Context, order *model.Order) error
}

// Registry is the ordered set of open orders plus the current focus.
type Registry struct {
	orders  []*model.Order
	current *model.Order
	seeder  Seeder
}

func New(seeder Seeder) *Registry {
	return &Registry{seeder: seeder}
}

// NewOrder creates an open order for the given cashier, seeds it, and
// appends it to the collection. Iteration order of Orders is insertion order.
func (r *Registry) NewOrder(ctx context.Context, cashierID uuid.UUID) (*model.Order, error) {
	order := &model.Order{
		ID:        uuid.New(),
		CashierID: cashierID,
		CreatedAt: time.Now(),
	}
	if r.seeder != nil {
		if err := r.seeder.Seed(ctx, order); err != nil {
			return nil, err
		}
	}
	r.orders = append(r.orders, order)
	return order, nil
}

// Orders returns the open orders in insertion order. The slice is a copy;
// the orders themselves are shared.
func (r *Registry) Orders() []*model.Order {
	out := make([]*model.Order, len(r.orders))
	copy(out, r.orders)
	return out
}

// Get returns the open order with the given id, or nil.
func (r *Registry) Get(id uuid.UUID) *model.Order {
	for _, o := range r.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Remove drops an order from the open set, e.g. after finalization.
// The order value itself is left untouched.
func (r *Registry) Remove(id uuid.UUID) bool {
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			if r.current == o {
				r.current = nil
			}
			return true
		}
	}
	return false
}

// Current returns the order currently in focus, or nil.
func (r *Registry) Current() *model.Order { return r.current }

// SetCurrent moves the focus. The owning service assigns focus explicitly
// after creation and refund routing; the registry never focuses on its own.
// The order must already be in the registry.
func (r *Registry) SetCurrent(o *model.Order) { r.current = o }

// Len reports how many orders are open.
func (r *Registry) Len() int { return len(r.orders) }
