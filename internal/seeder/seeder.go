// Package seeder appends the preselected product lines to every newly
// created order.
package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"posguard/internal/model"
)

// Catalog supplies the preselected products of the catalog snapshot taken at
// order creation time, in catalog order, with pricing already resolved.
type Catalog interface {
	Preselected(ctx context.Context) ([]model.Product, error)
}

type Seeder struct {
	catalog Catalog
}

func New(catalog Catalog) *Seeder { return &Seeder{catalog: catalog} }

// Seed adds one line per preselected product, in snapshot order, with the
// product's default quantity and list price. Runs exactly once per order,
// during creation.
func (s *Seeder) Seed(ctx context.Context, order *model.Order) error {
	products, err := s.catalog.Preselected(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		p := &products[i]
		order.Lines = append(order.Lines, model.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.DefaultQty,
			UnitPrice: p.ListPrice,
			CreatedAt: time.Now(),
		})
	}
	return nil
}
