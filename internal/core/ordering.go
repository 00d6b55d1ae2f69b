package core

import (
	"matchd/internal/domain"
)

// lessFunc reports whether a has strictly higher priority than b among
// orders of the same side. The best order of a side is the minimum under
// this ordering, so price-time priority falls out of keeping each side
// sorted by it.
type lessFunc func(a, b *domain.Order) bool

// priorityFor returns the ordering for one side: bids by price descending,
// asks by price ascending, ties always broken by arrival sequence. The
// ordering is never used across sides; crossing is decided by explicit
// price comparison in the engine.
func priorityFor(side domain.Side) lessFunc {
	if side == domain.Buy {
		return func(a, b *domain.Order) bool {
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c > 0
			}
			return a.Sequence < b.Sequence
		}
	}
	return func(a, b *domain.Order) bool {
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c < 0
		}
		return a.Sequence < b.Sequence
	}
}
