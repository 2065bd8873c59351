package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"posguard/internal/model"
	"posguard/internal/repository"
)

// OrderSyncWorker hands finalized orders to the persistence layer. The
// engine itself never writes order rows synchronously; finalization enqueues
// and moves on.
type OrderSyncWorker struct {
	repo repository.OrderRepository
}

func NewOrderSyncWorker(repo repository.OrderRepository) *OrderSyncWorker {
	return &OrderSyncWorker{repo: repo}
}

func (w *OrderSyncWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var order model.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return err
	}
	// Association records travel inside the payload; only the ids are
	// persisted with the order row.
	order.Customer = nil
	order.Salesperson = nil

	if err := w.repo.Save(ctx, &order); err != nil {
		return err
	}
	log.Info().
		Str("order_id", order.ID.String()).
		Int("lines", len(order.Lines)).
		Msg("finalized order persisted")
	return nil
}
