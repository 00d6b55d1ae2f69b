package port

import (
	"context"

	"matchd/internal/domain"
)

// Repository is the downstream journal for orders and executions. The
// worker writes to it after every processing pass; the gateway reads from
// it to answer queries.
type Repository interface {
	SaveOrder(ctx context.Context, o *domain.Order) error
	SaveTrade(ctx context.Context, t *domain.Trade) error
	LoadOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error)
}
