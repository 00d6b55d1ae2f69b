package domain

import "time"

// OrderbookSnapshot is a point-in-time copy of both sides, best order first.
type OrderbookSnapshot struct {
	Bids      []Order   `json:"bids"`
	Asks      []Order   `json:"asks"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *OrderbookSnapshot) DeepCopy() *OrderbookSnapshot {
	cp := &OrderbookSnapshot{
		Bids:      make([]Order, len(s.Bids)),
		Asks:      make([]Order, len(s.Asks)),
		Timestamp: s.Timestamp,
	}
	copy(cp.Bids, s.Bids)
	copy(cp.Asks, s.Asks)
	return cp
}
