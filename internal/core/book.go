package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"matchd/internal/domain"
)

// Book holds the resting orders of a single instrument: bids sorted by
// price descending, asks by price ascending, FIFO within a price. It is
// owned by exactly one goroutine (the engine) and carries no lock.
type Book struct {
	bids []*domain.Order
	asks []*domain.Order
}

func NewBook() *Book {
	return &Book{}
}

func (b *Book) ordersOn(side domain.Side) *[]*domain.Order {
	if side == domain.Buy {
		return &b.bids
	}
	return &b.asks
}

// Best returns the highest-priority resting order on a side, nil if the
// side is empty. It never mutates the book.
func (b *Book) Best(side domain.Side) *domain.Order {
	orders := *b.ordersOn(side)
	if len(orders) == 0 {
		return nil
	}
	return orders[0]
}

// InsertResting places an order into its side at the position given by
// price-time priority. Orders without positive remaining quantity are a
// caller error and are rejected.
func (b *Book) InsertResting(o *domain.Order) error {
	if !o.Remaining.IsPositive() {
		return ErrNonPositiveResting
	}
	orders := b.ordersOn(o.Side)
	less := priorityFor(o.Side)
	i := sort.Search(len(*orders), func(i int) bool {
		return less(o, (*orders)[i])
	})
	*orders = append(*orders, nil)
	copy((*orders)[i+1:], (*orders)[i:])
	(*orders)[i] = o
	return nil
}

// Decrement reduces a resting order's remaining quantity by qty and
// removes it from the book in the same step when it reaches zero, so the
// book never exposes a zero-quantity entry.
func (b *Book) Decrement(side domain.Side, o *domain.Order, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return ErrInvalidQuantity
	}
	if qty.GreaterThan(o.Remaining) {
		return ErrDecrementTooLarge
	}
	orders := b.ordersOn(side)
	i := -1
	for j, r := range *orders {
		if r == o {
			i = j
			break
		}
	}
	if i < 0 {
		return ErrOrderNotInBook
	}
	o.Remaining = o.Remaining.Sub(qty)
	if o.Remaining.IsZero() {
		o.Status = domain.Filled
		*orders = append((*orders)[:i], (*orders)[i+1:]...)
	} else {
		o.Status = domain.PartiallyFilled
	}
	return nil
}

// IsCrossed reports whether best bid >= best ask, an invalid state.
func (b *Book) IsCrossed() bool {
	if len(b.bids) == 0 || len(b.asks) == 0 {
		return false
	}
	return b.bids[0].Price.GreaterThanOrEqual(b.asks[0].Price)
}

func (b *Book) BidCount() int { return len(b.bids) }
func (b *Book) AskCount() int { return len(b.asks) }

// Snapshot copies both sides in priority order.
func (b *Book) Snapshot() *domain.OrderbookSnapshot {
	snap := &domain.OrderbookSnapshot{
		Bids:      make([]domain.Order, len(b.bids)),
		Asks:      make([]domain.Order, len(b.asks)),
		Timestamp: time.Now(),
	}
	for i, o := range b.bids {
		snap.Bids[i] = *o
	}
	for i, o := range b.asks {
		snap.Asks[i] = *o
	}
	return snap
}
