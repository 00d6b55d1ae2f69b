package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"matchd/internal/core"
	"matchd/internal/domain"
	"matchd/internal/metrics"
	"matchd/internal/port"
)

// Worker is the single consumer of the queue. It stamps each order with
// its arrival sequence, runs it through the engine to completion, then
// journals the result and republishes the book snapshot. One order is
// always finished before the next is dequeued.
type Worker struct {
	queue  *Queue
	engine *core.Engine
	repo   port.Repository
	cache  port.Cache
	log    *zap.Logger
	mx     *metrics.Metrics

	arrivalSeq uint64
	// live orders by id, so maker-side fills can be journaled too
	open map[uint64]*domain.Order
}

func NewWorker(q *Queue, e *core.Engine, repo port.Repository, cache port.Cache, log *zap.Logger, mx *metrics.Metrics) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		queue:  q,
		engine: e,
		repo:   repo,
		cache:  cache,
		log:    log,
		mx:     mx,
		open:   make(map[uint64]*domain.Order),
	}
}

// Run drains the queue in arrival order until it is closed and empty,
// which is the normal termination signal. An invariant violation from the
// engine halts the worker with an error: matching must not continue on a
// corrupted book.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o := <-w.queue.C():
			if err := w.handle(ctx, o); err != nil {
				w.log.Error("engine halted", zap.Uint64("order_id", o.ID), zap.Error(err))
				return err
			}
		case <-w.queue.Done():
			return w.drain(ctx)
		}
	}
}

// drain finishes whatever was buffered before Close; in-flight work always
// runs to completion, new submissions are already being refused.
func (w *Worker) drain(ctx context.Context) error {
	for {
		select {
		case o := <-w.queue.C():
			if err := w.handle(ctx, o); err != nil {
				w.log.Error("engine halted", zap.Uint64("order_id", o.ID), zap.Error(err))
				return err
			}
		default:
			w.log.Info("ingest queue drained, stopping engine worker")
			return nil
		}
	}
}

func (w *Worker) handle(ctx context.Context, o *domain.Order) error {
	w.arrivalSeq++
	o.Sequence = w.arrivalSeq
	w.open[o.ID] = o

	trades, err := w.engine.Process(o)
	// Trades produced before a failure are still real executions and must
	// reach the journal even when processing halts afterwards.
	w.publish(ctx, o, trades)
	if err != nil {
		return fmt.Errorf("process order %d: %w", o.ID, err)
	}

	if w.mx != nil {
		w.mx.OrdersProcessed.Inc()
		w.mx.TradesExecuted.Add(float64(len(trades)))
		w.mx.QueueDepth.Set(float64(w.queue.Depth()))
	}
	w.log.Debug("order processed",
		zap.Uint64("order_id", o.ID),
		zap.Uint64("sequence", o.Sequence),
		zap.Int("trades", len(trades)),
		zap.String("remaining", o.Remaining.String()),
	)
	return nil
}

func (w *Worker) publish(ctx context.Context, o *domain.Order, trades []*domain.Trade) {
	if w.repo != nil {
		w.saveOrder(ctx, o)
		for _, tr := range trades {
			if err := w.repo.SaveTrade(ctx, tr); err != nil {
				w.log.Warn("save trade", zap.String("trade_id", tr.ID), zap.Error(err))
			}
			if maker, ok := w.open[tr.MakerID]; ok {
				w.saveOrder(ctx, maker)
			}
		}
	}
	for _, tr := range trades {
		if maker, ok := w.open[tr.MakerID]; ok && maker.IsFilled() {
			delete(w.open, tr.MakerID)
		}
	}
	if o.IsFilled() {
		delete(w.open, o.ID)
	}
	if w.cache != nil {
		if err := w.cache.SetOrderbook(ctx, w.engine.Book().Snapshot()); err != nil {
			w.log.Warn("cache orderbook", zap.Error(err))
		}
	}
}

func (w *Worker) saveOrder(ctx context.Context, o *domain.Order) {
	if err := w.repo.SaveOrder(ctx, o); err != nil {
		w.log.Warn("save order", zap.Uint64("order_id", o.ID), zap.Error(err))
	}
}
