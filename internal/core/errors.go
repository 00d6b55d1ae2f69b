package core

import "errors"

var (
	ErrInvalidSide     = errors.New("invalid side")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrDuplicateOrder  = errors.New("duplicate order id")

	// Invariant violations. Processing must halt when one of these is
	// returned; the book can no longer be trusted.
	ErrBookCrossed        = errors.New("order book crossed")
	ErrNonPositiveResting = errors.New("resting order with non-positive remaining quantity")
	ErrDecrementTooLarge  = errors.New("decrement exceeds remaining quantity")
	ErrOrderNotInBook     = errors.New("order not found in book")
)
