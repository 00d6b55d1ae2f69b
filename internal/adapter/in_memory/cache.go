package in_memory

import (
	"context"
	"sync"

	"matchd/internal/domain"
	"matchd/internal/port"
)

var _ port.Cache = (*Cache)(nil)

type Cache struct {
	mu   sync.Mutex
	book *domain.OrderbookSnapshot
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) SetOrderbook(ctx context.Context, ob *domain.OrderbookSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.book = ob.DeepCopy()
	return nil
}

func (c *Cache) GetOrderbook(ctx context.Context) (*domain.OrderbookSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.book == nil {
		return nil, nil
	}
	return c.book.DeepCopy(), nil
}

func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.book = nil
	return nil
}
