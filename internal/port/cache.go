package port

import (
	"context"

	"matchd/internal/domain"
)

// Cache holds the latest orderbook snapshot for the single instrument.
type Cache interface {
	SetOrderbook(ctx context.Context, ob *domain.OrderbookSnapshot) error
	GetOrderbook(ctx context.Context) (*domain.OrderbookSnapshot, error)
	Invalidate(ctx context.Context) error
}
