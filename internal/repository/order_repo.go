package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"posguard/internal/model"
)

// OrderRepository persists finalized orders. Open orders live exclusively in
// the session registry; this engine only hands orders over once finalized and
// reads them back for refund sourcing.
type OrderRepository interface {
	Save(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, limit int) ([]model.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Save(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		Preload("Customer").
		Preload("Salesperson").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, limit int) ([]model.Order, error) {
	if limit < 1 {
		limit = 50
	}
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
