// Package catalog exposes the product catalog snapshot the engine consumes:
// the preselected set for the auto-line seeder and barcode price resolution.
// The preselected snapshot is cached in Redis because it is read on every
// order creation and changes rarely.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"posguard/internal/model"
	"posguard/internal/repository"
)

const preselectedCacheKey = "catalog:preselected"

type Service struct {
	repo repository.ProductRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func New(repo repository.ProductRepository, rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{repo: repo, rdb: rdb, ttl: ttl}
}

// Preselected returns the products flagged for auto-insertion, in catalog
// order. Cache-aside: Redis first, DB on miss, best-effort repopulation.
func (s *Service) Preselected(ctx context.Context) ([]model.Product, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, preselectedCacheKey).Bytes(); err == nil {
			var products []model.Product
			if jsonErr := json.Unmarshal(cached, &products); jsonErr == nil {
				return products, nil
			}
		}
	}

	products, err := s.repo.ListPreselected(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(products); jsonErr == nil {
			_ = s.rdb.Set(ctx, preselectedCacheKey, b, s.ttl).Err()
		}
	}
	return products, nil
}

// SetPreselected flips the flag on a product and invalidates the snapshot.
func (s *Service) SetPreselected(ctx context.Context, id uuid.UUID, preselected bool) error {
	if err := s.repo.SetPreselected(ctx, id, preselected); err != nil {
		return err
	}
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, preselectedCacheKey).Err()
	}
	return nil
}

// ByBarcode resolves a product for line entry.
func (s *Service) ByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}
