package model

import (
	"time"

	"github.com/google/uuid"
)

// Salesperson is the identity credited with a sale. Orders reference it,
// never own it.
type Salesperson struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"not null"`
	// Selectable controls whether the salesperson appears in the
	// selection flow for this register.
	Selectable bool `gorm:"not null;default:true"`
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
