package ingest

import (
	"context"
	"errors"
	"sync"

	"matchd/internal/domain"
)

const DefaultCapacity = 100

var ErrQueueClosed = errors.New("ingest queue closed")

// Queue is the bounded conduit between producers (the gateway) and the
// single engine worker. A full queue blocks the producer instead of
// dropping or reordering; delivery order is the channel's FIFO order.
// Shutdown is signalled through a separate done channel rather than by
// closing the order channel, so Close returns immediately even while
// producers are blocked on a full queue and the consumer is gone.
type Queue struct {
	ch   chan *domain.Order
	done chan struct{}
	once sync.Once
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		ch:   make(chan *domain.Order, capacity),
		done: make(chan struct{}),
	}
}

// Submit enqueues an order, blocking while the queue is full. It returns
// ctx.Err() if the caller gives up waiting and ErrQueueClosed after Close,
// including for producers already parked on a full queue.
func (q *Queue) Submit(ctx context.Context, o *domain.Order) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- o:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting submissions and releases any blocked producers.
// Orders already buffered stay available for the consumer to drain;
// consuming past them is the normal shutdown signal.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.done)
	})
}

// C is the consumer end; receive alongside Done.
func (q *Queue) C() <-chan *domain.Order {
	return q.ch
}

// Done is closed once the queue no longer accepts submissions.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Depth reports how many orders are currently waiting.
func (q *Queue) Depth() int {
	return len(q.ch)
}
