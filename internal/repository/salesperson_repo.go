package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"posguard/internal/model"
)

type SalespersonRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Salesperson, error)
	// ListSelectable returns the salespersons offered by the selection
	// flow, in a stable order.
	ListSelectable(ctx context.Context) ([]model.Salesperson, error)
	Create(ctx context.Context, sp *model.Salesperson) error
}

type salespersonRepo struct{ db *gorm.DB }

func NewSalespersonRepository(db *gorm.DB) SalespersonRepository {
	return &salespersonRepo{db: db}
}

func (r *salespersonRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Salesperson, error) {
	var sp model.Salesperson
	err := r.db.WithContext(ctx).Where("active = true").First(&sp, id).Error
	return &sp, err
}

func (r *salespersonRepo) ListSelectable(ctx context.Context) ([]model.Salesperson, error) {
	var sps []model.Salesperson
	err := r.db.WithContext(ctx).
		Where("active = true AND selectable = true").
		Order("name").
		Find(&sps).Error
	return sps, err
}

func (r *salespersonRepo) Create(ctx context.Context, sp *model.Salesperson) error {
	return r.db.WithContext(ctx).Create(sp).Error
}
