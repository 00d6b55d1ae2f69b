package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"matchd/internal/domain"
)

// Engine owns the book exclusively and runs the crossing algorithm. It is
// not safe for concurrent use: the ingest worker calls Process for one
// order at a time, which is what makes price-time priority and the trade
// sequence well-defined.
type Engine struct {
	book     *Book
	tradeSeq uint64
	log      *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{book: NewBook(), log: log}
}

// Book exposes the underlying book for snapshots and tests.
func (e *Engine) Book() *Book {
	return e.book
}

// Process crosses an incoming order against the opposite side until no
// further match is possible, then rests any remainder. It returns the
// trades in execution order. A non-nil error means an internal invariant
// was violated and the caller must stop feeding the engine.
func (e *Engine) Process(o *domain.Order) ([]*domain.Trade, error) {
	o.Status = domain.Open
	var trades []*domain.Trade

	for o.Remaining.IsPositive() {
		maker := e.book.Best(o.Side.Opposite())
		if maker == nil || !crosses(o, maker) {
			break
		}

		qty := decimal.Min(o.Remaining, maker.Remaining)
		e.tradeSeq++
		tr := &domain.Trade{
			ID:        uuid.NewString(),
			MakerID:   maker.ID,
			TakerID:   o.ID,
			TakerSide: o.Side,
			Price:     maker.Price,
			Quantity:  qty,
			Sequence:  e.tradeSeq,
			Timestamp: time.Now(),
		}

		if err := e.book.Decrement(maker.Side, maker, qty); err != nil {
			return trades, fmt.Errorf("decrement maker %d: %w", maker.ID, err)
		}
		o.Remaining = o.Remaining.Sub(qty)
		trades = append(trades, tr)

		e.log.Debug("trade executed",
			zap.Uint64("maker_id", tr.MakerID),
			zap.Uint64("taker_id", tr.TakerID),
			zap.String("price", tr.Price.String()),
			zap.String("quantity", tr.Quantity.String()),
			zap.Uint64("seq", tr.Sequence),
		)
	}

	switch {
	case o.Remaining.IsZero():
		o.Status = domain.Filled
	default:
		if len(trades) > 0 {
			o.Status = domain.PartiallyFilled
		}
		if err := e.book.InsertResting(o); err != nil {
			return trades, fmt.Errorf("rest order %d: %w", o.ID, err)
		}
	}

	if e.book.IsCrossed() {
		return trades, ErrBookCrossed
	}
	return trades, nil
}

// crosses reports whether the incoming order's limit reaches the maker's
// price. An exactly equal price crosses; execution is at the maker price
// either way.
func crosses(taker, maker *domain.Order) bool {
	if taker.Side == domain.Buy {
		return maker.Price.LessThanOrEqual(taker.Price)
	}
	return maker.Price.GreaterThanOrEqual(taker.Price)
}
