package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"matchd/internal/domain"
)

func TestQueue_PreservesFIFO(t *testing.T) {
	q := NewQueue(10)
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, q.Submit(context.Background(), &domain.Order{ID: i}))
	}
	q.Close()

	var got []uint64
	for len(q.C()) > 0 {
		got = append(got, (<-q.C()).ID)
	}
	require.Equal(t, []uint64{1, 2, 3, 4, 5}, got)
}

func TestQueue_BackpressureBlocksProducer(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Submit(context.Background(), &domain.Order{ID: 1}))

	// queue full: Submit must block until the context gives up, not drop
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Submit(ctx, &domain.Order{ID: 2})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// draining one slot unblocks the producer
	<-q.C()
	require.NoError(t, q.Submit(context.Background(), &domain.Order{ID: 3}))
}

func TestQueue_SubmitAfterClose(t *testing.T) {
	q := NewQueue(10)
	q.Close()
	err := q.Submit(context.Background(), &domain.Order{ID: 1})
	require.ErrorIs(t, err, ErrQueueClosed)

	// Close is idempotent
	q.Close()
}

func TestQueue_CloseReleasesBlockedProducer(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Submit(context.Background(), &domain.Order{ID: 1}))

	// producer parked on the full queue, no consumer draining (the state
	// after the engine worker halts)
	submitErr := make(chan error, 1)
	go func() {
		submitErr <- q.Submit(context.Background(), &domain.Order{ID: 2})
	}()
	time.Sleep(10 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		q.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Close blocked behind a Submit stuck on a full queue")
	}
	require.ErrorIs(t, <-submitErr, ErrQueueClosed)

	// the buffered order is still there for the consumer to drain
	require.Equal(t, 1, q.Depth())
	require.Equal(t, uint64(1), (<-q.C()).ID)
}

func TestQueue_DoneSignalsClosure(t *testing.T) {
	q := NewQueue(10)
	select {
	case <-q.Done():
		t.Fatal("Done closed before Close")
	default:
	}
	q.Close()
	select {
	case <-q.Done():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Done not closed after Close")
	}
}

func TestQueue_DefaultCapacity(t *testing.T) {
	q := NewQueue(0)
	require.Equal(t, DefaultCapacity, cap(q.ch))
}
