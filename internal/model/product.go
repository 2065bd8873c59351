package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entry consumed by this engine. Preselected products
// are auto-added as lines to every newly created order, in catalog order.
type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode string    `gorm:"uniqueIndex;not null"`
	Name    string    `gorm:"index;not null"`
	// Cost is only exposed to cashiers whose can_see_cost_margin
	// capability does not resolve to denied.
	Cost      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ListPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// DefaultQty is the quantity the seeder uses for preselected lines.
	DefaultQty  decimal.Decimal `gorm:"type:decimal(10,3);not null;default:1"`
	Preselected bool            `gorm:"not null;default:false;index"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Margin is derived from list price and cost, as a percentage of cost.
func (p *Product) Margin() decimal.Decimal {
	if p.Cost.IsZero() {
		return decimal.Zero
	}
	return p.ListPrice.Sub(p.Cost).Div(p.Cost).Mul(decimal.NewFromInt(100)).Round(2)
}
