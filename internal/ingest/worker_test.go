package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"matchd/internal/adapter/in_memory"
	"matchd/internal/core"
	"matchd/internal/domain"
)

func order(id uint64, side domain.Side, price, qty string) *domain.Order {
	q := decimal.RequireFromString(qty)
	return &domain.Order{
		ID:        id,
		Side:      side,
		Price:     decimal.RequireFromString(price),
		Quantity:  q,
		Remaining: q,
		Status:    domain.Open,
		CreatedAt: time.Now(),
	}
}

func TestWorker_DrainsQueueAndJournals(t *testing.T) {
	q := NewQueue(10)
	repo := in_memory.NewMemoryRepo()
	bookCache := in_memory.NewCache()
	w := NewWorker(q, core.NewEngine(nil), repo, bookCache, nil, nil)

	ctx := context.Background()
	require.NoError(t, q.Submit(ctx, order(1, domain.Sell, "50000", "1")))
	require.NoError(t, q.Submit(ctx, order(2, domain.Buy, "49000", "1")))
	require.NoError(t, q.Submit(ctx, order(3, domain.Buy, "51000", "2")))
	q.Close()

	// queue closure is the normal termination signal
	require.NoError(t, w.Run(ctx))

	// maker fully filled
	o1, err := repo.LoadOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.Filled, o1.Status)
	require.True(t, o1.Remaining.IsZero())

	// taker partially filled and resting
	o3, err := repo.LoadOrder(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, domain.PartiallyFilled, o3.Status)
	require.Equal(t, "1", o3.Remaining.String())

	trades, err := repo.LoadTradesForOrder(ctx, 3)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, uint64(1), trades[0].MakerID)
	require.Equal(t, "50000", trades[0].Price.String())

	// snapshot published after the last order
	snap, err := bookCache.GetOrderbook(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Empty(t, snap.Asks)
	require.Len(t, snap.Bids, 2)
	require.Equal(t, uint64(3), snap.Bids[0].ID)
}

func TestWorker_AssignsArrivalSequence(t *testing.T) {
	q := NewQueue(10)
	repo := in_memory.NewMemoryRepo()
	w := NewWorker(q, core.NewEngine(nil), repo, nil, nil, nil)

	ctx := context.Background()
	// same price level: sequence decides FIFO priority later
	require.NoError(t, q.Submit(ctx, order(7, domain.Sell, "100", "1")))
	require.NoError(t, q.Submit(ctx, order(8, domain.Sell, "100", "1")))
	q.Close()
	require.NoError(t, w.Run(ctx))

	o7, err := repo.LoadOrder(ctx, 7)
	require.NoError(t, err)
	o8, err := repo.LoadOrder(ctx, 8)
	require.NoError(t, err)
	require.Equal(t, uint64(1), o7.Sequence)
	require.Equal(t, uint64(2), o8.Sequence)
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	q := NewQueue(10)
	w := NewWorker(q, core.NewEngine(nil), nil, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Run(ctx), context.Canceled)
}
