package model

import (
	"time"

	"github.com/google/uuid"
)

// CapabilitySet stores the raw tri-state capability flags of a cashier.
// NULL (nil pointer) means the flag was never set for this cashier, which
// consumers must treat as allowed — single-cashier deployments never
// configure these and must keep full access.
type CapabilitySet struct {
	CanSeeCostMargin  *bool `json:"can_see_cost_margin,omitempty"`
	CanRefund         *bool `json:"can_refund,omitempty"`
	CanChangePrice    *bool `json:"can_change_price,omitempty"`
	CanDiscount       *bool `json:"can_discount,omitempty"`
	CanChangeQuantity *bool `json:"can_change_quantity,omitempty"`
	CanRemoveLine     *bool `json:"can_remove_line,omitempty"`
}

// Cashier is the staff identity operating the register, distinct from the
// Salesperson credited with a sale.
type Cashier struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username string    `gorm:"uniqueIndex;not null"`
	Name     string    `gorm:"not null"`
	PINHash  string    `gorm:"not null;column:pin_hash"`
	// Capability columns are nullable on purpose (tri-state).
	CapabilitySet `gorm:"embedded"`
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
