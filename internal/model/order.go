package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the mutable aggregate owned by the register session. While open it
// lives only in the session registry; once finalized it is handed to the
// persistence layer and never mutated again.
type Order struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	SalespersonID *uuid.UUID `gorm:"type:uuid;index"`
	CashierID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	Lines         []OrderLine `gorm:"foreignKey:OrderID"`
	Payments      []OrderPayment `gorm:"foreignKey:OrderID"`
	Finalized     bool `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer    *Customer    `gorm:"foreignKey:CustomerID"`
	Salesperson *Salesperson `gorm:"foreignKey:SalespersonID"`
}

// OrderLine belongs to exactly one order. A negative quantity marks a refund
// line. Removing every line leaves the order itself alive.
type OrderLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	// Name is denormalized from the product at line creation so receipts
	// survive later catalog edits.
	Name      string          `gorm:"not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// DiscountPct is a percentage in [0, 100].
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	// HideOnReceipt suppresses the line on the printed ticket without
	// removing it from the order totals.
	HideOnReceipt bool `gorm:"not null;default:false"`
	// RefundedLineID links a refund line back to the line it returns.
	RefundedLineID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// IsRefund reports whether this line represents returned merchandise.
func (l *OrderLine) IsRefund() bool { return l.Quantity.IsNegative() }

// Subtotal is quantity × unit price less the percentage discount.
func (l *OrderLine) Subtotal() decimal.Decimal {
	gross := l.Quantity.Mul(l.UnitPrice)
	if l.DiscountPct.IsZero() {
		return gross
	}
	factor := decimal.NewFromInt(100).Sub(l.DiscountPct).Div(decimal.NewFromInt(100))
	return gross.Mul(factor).Round(2)
}

// OrderPayment is a payment reference attached to an order. Payment
// processing itself happens outside this engine; the matcher only cares
// whether any payment exists.
type OrderPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method    string          `gorm:"type:varchar(30);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

// ── Salesperson binding ──────────────────────────────────────────────────────

// SetSalesperson assigns the salesperson credited with this order. A nil
// salesperson is a no-op so an existing binding is never cleared by accident.
func (o *Order) SetSalesperson(sp *Salesperson) {
	if sp == nil {
		return
	}
	o.Salesperson = sp
	id := sp.ID
	o.SalespersonID = &id
}

// BindSalespersonIfAbsent assigns only when the order has no salesperson yet.
// Used when routing a refund into a destination order: an existing binding
// must never be overwritten.
func (o *Order) BindSalespersonIfAbsent(sp *Salesperson) {
	if o.Salesperson == nil {
		o.SetSalesperson(sp)
	}
}

// GetSalesperson returns the bound salesperson, or nil.
func (o *Order) GetSalesperson() *Salesperson { return o.Salesperson }

// SalespersonName returns the bound salesperson's display name for printing,
// or the empty string when none is bound.
func (o *Order) SalespersonName() string {
	if o.Salesperson == nil {
		return ""
	}
	return o.Salesperson.Name
}

// ── Lifecycle predicates ─────────────────────────────────────────────────────

// HasRefundLines reports whether any line on the order is a refund line.
// Once true, the salesperson selection flow refuses reassignment.
func (o *Order) HasRefundLines() bool {
	for i := range o.Lines {
		if o.Lines[i].IsRefund() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the order is a candidate for destination matching:
// not finalized, no lines, no payments.
func (o *Order) IsEmpty() bool {
	return !o.Finalized && len(o.Lines) == 0 && len(o.Payments) == 0
}

// Line returns the line with the given id, or nil.
func (o *Order) Line(id uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i]
		}
	}
	return nil
}

// RemoveLine deletes the line with the given id, preserving the order of the
// remaining lines. Returns false when no such line exists.
func (o *Order) RemoveLine(id uuid.UUID) bool {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Total sums the line subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].Subtotal())
	}
	return total
}
