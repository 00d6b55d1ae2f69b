package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type SubmitOrderRequest struct {
	ClientOrderID string          `json:"client_order_id,omitempty"` // for deduplication
	ClientID      string          `json:"client_id" binding:"required"`
	Side          Side            `json:"side" binding:"required"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
}

type SubmitOrderResponse struct {
	OrderID       uint64 `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
}

type GetOrderResponse struct {
	Order Order `json:"order"`
}

type GetTradesResponse struct {
	Trades []Trade `json:"trades"`
}

type GetOrderbookResponse struct {
	Bids      []Order   `json:"bids"`
	Asks      []Order   `json:"asks"`
	Timestamp time.Time `json:"timestamp"`
}

type Order struct {
	ID            uint64          `json:"id"`
	ClientID      string          `json:"client_id"`
	ClientOrderID string          `json:"client_order_id"`
	Side          Side            `json:"side"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	Remaining     decimal.Decimal `json:"remaining"`
	Filled        decimal.Decimal `json:"filled"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Trade struct {
	ID        string          `json:"id"`
	BuyOrder  uint64          `json:"buy_order"`
	SellOrder uint64          `json:"sell_order"`
	MakerID   uint64          `json:"maker_id"`
	TakerID   uint64          `json:"taker_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Sequence  uint64          `json:"sequence"`
	Timestamp time.Time       `json:"timestamp"`
}
