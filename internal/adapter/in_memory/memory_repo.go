package in_memory

import (
	"context"
	"errors"
	"sync"

	"matchd/internal/domain"
	"matchd/internal/port"
)

var ErrOrderNotFound = errors.New("order not found")

var _ port.Repository = (*MemoryRepo)(nil)

// MemoryRepo keeps the journal in process memory. The worker writes and
// the gateway reads concurrently, hence the lock.
type MemoryRepo struct {
	mu     sync.Mutex
	orders map[uint64]domain.Order
	trades map[uint64][]*domain.Trade
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		orders: make(map[uint64]domain.Order),
		trades: make(map[uint64][]*domain.Trade),
	}
}

func (r *MemoryRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r *MemoryRepo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[t.MakerID] = append(r.trades[t.MakerID], t)
	r.trades[t.TakerID] = append(r.trades[t.TakerID], t)
	return nil
}

func (r *MemoryRepo) LoadOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (r *MemoryRepo) LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trades := r.trades[orderID]
	res := make([]*domain.Trade, len(trades))
	copy(res, trades)
	return res, nil
}
