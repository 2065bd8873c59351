package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is referenced by orders for identity comparison during
// destination matching. This engine never mutates customer data.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
