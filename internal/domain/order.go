package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string
type OrderStatus string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"

	Open            OrderStatus = "OPEN"
	Filled          OrderStatus = "FILLED"
	PartiallyFilled OrderStatus = "PARTIALLY_FILLED"
)

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Order is a validated limit order. The gateway assigns ID; the queue
// consumer assigns Sequence in arrival order. Remaining is mutated only
// inside the engine's processing pass.
type Order struct {
	ID            uint64          `json:"id"`
	ClientID      string          `json:"client_id"`
	ClientOrderID string          `json:"client_order_id"`
	Side          Side            `json:"side"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	Remaining     decimal.Decimal `json:"remaining"`
	Sequence      uint64          `json:"sequence"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (o *Order) IsFilled() bool {
	return !o.Remaining.IsPositive()
}

func (o *Order) FilledQuantity() decimal.Decimal {
	return o.Quantity.Sub(o.Remaining)
}
