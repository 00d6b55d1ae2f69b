package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single execution. Price is always the maker's limit price;
// Sequence is assigned by the engine and strictly increasing across all
// trades it has produced.
type Trade struct {
	ID        string          `json:"id"`
	MakerID   uint64          `json:"maker_id"`
	TakerID   uint64          `json:"taker_id"`
	TakerSide Side            `json:"taker_side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Sequence  uint64          `json:"sequence"`
	Timestamp time.Time       `json:"timestamp"`
}

// BuyOrderID returns the id of the buying party.
func (t *Trade) BuyOrderID() uint64 {
	if t.TakerSide == Buy {
		return t.TakerID
	}
	return t.MakerID
}

// SellOrderID returns the id of the selling party.
func (t *Trade) SellOrderID() uint64 {
	if t.TakerSide == Sell {
		return t.TakerID
	}
	return t.MakerID
}
