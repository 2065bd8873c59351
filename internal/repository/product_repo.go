package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"posguard/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	// ListPreselected returns the preselected products in catalog order
	// (creation order), the order the seeder inserts lines in.
	ListPreselected(ctx context.Context) ([]model.Product, error)
	SetPreselected(ctx context.Context, id uuid.UUID, preselected bool) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? AND active = true", barcode).
		First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("active = true").Order("name").Find(&products).Error
	return products, err
}

func (r *productRepo) ListPreselected(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("active = true AND preselected = true").
		Order("created_at").
		Find(&products).Error
	return products, err
}

func (r *productRepo) SetPreselected(ctx context.Context, id uuid.UUID, preselected bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("preselected", preselected).Error
}
