package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"posguard/internal/model"
)

type CashierRepository interface {
	Create(ctx context.Context, c *model.Cashier) error
	FindByUsername(ctx context.Context, username string) (*model.Cashier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cashier, error)
	List(ctx context.Context) ([]model.Cashier, error)
}

type cashierRepo struct{ db *gorm.DB }

func NewCashierRepository(db *gorm.DB) CashierRepository { return &cashierRepo{db: db} }

func (r *cashierRepo) Create(ctx context.Context, c *model.Cashier) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cashierRepo) FindByUsername(ctx context.Context, username string) (*model.Cashier, error) {
	var c model.Cashier
	err := r.db.WithContext(ctx).
		Where("username = ? AND active = true", username).
		First(&c).Error
	return &c, err
}

func (r *cashierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cashier, error) {
	var c model.Cashier
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cashierRepo) List(ctx context.Context) ([]model.Cashier, error) {
	var cashiers []model.Cashier
	err := r.db.WithContext(ctx).Where("active = true").Order("name").Find(&cashiers).Error
	return cashiers, err
}
