package seeder

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posguard/internal/model"
)

type stubCatalog struct {
	products []model.Product
}

func (s *stubCatalog) Preselected(context.Context) ([]model.Product, error) {
	return s.products, nil
}

func TestSeedFollowsSnapshotOrder(t *testing.T) {
	a := model.Product{ID: uuid.New(), Name: "carrier bag", DefaultQty: decimal.NewFromInt(1), ListPrice: decimal.NewFromFloat(0.10)}
	b := model.Product{ID: uuid.New(), Name: "deposit", DefaultQty: decimal.NewFromInt(2), ListPrice: decimal.NewFromFloat(0.25)}

	order := &model.Order{ID: uuid.New()}
	s := New(&stubCatalog{products: []model.Product{a, b}})
	require.NoError(t, s.Seed(context.Background(), order))

	require.Len(t, order.Lines, 2)
	assert.Equal(t, a.ID, order.Lines[0].ProductID)
	assert.Equal(t, b.ID, order.Lines[1].ProductID)
	assert.True(t, order.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, order.Lines[1].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, order.Lines[0].UnitPrice.Equal(a.ListPrice))
	assert.Equal(t, order.ID, order.Lines[0].OrderID)
}

func TestSeedEmptyCatalog(t *testing.T) {
	order := &model.Order{ID: uuid.New()}
	s := New(&stubCatalog{})
	require.NoError(t, s.Seed(context.Background(), order))
	assert.Empty(t, order.Lines)
}
