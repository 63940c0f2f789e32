package core

import "errors"

// Errors
var (
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidDelta          = errors.New("invalid delta")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPriceMismatch         = errors.New("order price does not match level price")
	ErrNotInitialized        = errors.New("order book not initialized")
	ErrBookDisposed          = errors.New("order book disposed")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)

// Side marks which half of the book an order or delta targets.
type Side int8

const (
	// NoSide applies to book-wide actions such as Clear.
	NoSide Side = iota
	Buy
	Sell
)

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case NoSide:
		return "NO_SIDE"
	default:
		return "UNKNOWN"
	}
}

// SideFromString parses a side name. Accepts the wire forms used by
// venue feeds ("BUY"/"SELL", "BID"/"ASK", single letters).
func SideFromString(s string) (Side, error) {
	switch s {
	case "BUY", "BID", "B", "buy", "bid", "b":
		return Buy, nil
	case "SELL", "ASK", "S", "A", "sell", "ask", "s", "a":
		return Sell, nil
	case "NO_SIDE", "NONE", "":
		return NoSide, nil
	default:
		return NoSide, errors.New("invalid side: " + s)
	}
}

// BookState tracks the order book lifecycle.
type BookState int8

const (
	StateUninitialized BookState = iota
	StateLive
	StateDisposed
)

// String implements fmt.Stringer.
func (s BookState) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateLive:
		return "LIVE"
	case StateDisposed:
		return "DISPOSED"
	default:
		return "UNKNOWN"
	}
}
