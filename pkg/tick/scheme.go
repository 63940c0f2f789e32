// Package tick implements venue price grids: the set of valid prices an
// instrument may quote at, with rounding and tick-walking operations.
package tick

import (
	"errors"

	"github.com/erain9/tickbook/pkg/core"
)

// Errors
var (
	ErrPriceOutOfRange = errors.New("price out of tick scheme range")
	ErrOffTick         = errors.New("price not on tick grid")
	ErrSchemeNotFound  = errors.New("tick scheme not found")
	ErrDuplicateScheme = errors.New("tick scheme already registered")
)

// RoundDirection selects how RoundToTick resolves a value that falls
// between two ticks. A value already on a tick returns that tick for
// every direction.
type RoundDirection int8

const (
	// RoundNearest picks the closer tick, half-up.
	RoundNearest RoundDirection = iota
	RoundDown
	RoundUp
)

// String implements fmt.Stringer.
func (d RoundDirection) String() string {
	switch d {
	case RoundNearest:
		return "NEAREST"
	case RoundDown:
		return "DOWN"
	case RoundUp:
		return "UP"
	default:
		return "UNKNOWN"
	}
}

// TickScheme is a venue price grid. Implementations are immutable after
// construction and safe for concurrent use.
//
// Ask walks start at the first tick strictly above the value, bid walks
// at the largest tick at or below it; n counts further ticks in that
// direction. Any operation whose input or result leaves
// [MinPrice, MaxPrice] fails with ErrPriceOutOfRange; nothing ever
// clamps.
type TickScheme interface {
	Name() string
	MinPrice() core.Price
	MaxPrice() core.Price
	Precision() uint8

	RoundToTick(value core.Price, direction RoundDirection) (core.Price, error)
	NextAskPrice(value core.Price, n int) (core.Price, error)
	NextBidPrice(value core.Price, n int) (core.Price, error)
	NextAskPrices(value core.Price, n int) ([]core.Price, error)
	NextBidPrices(value core.Price, n int) ([]core.Price, error)
	FindTickIndex(value core.Price) (int, error)

	// Validate reports whether value lies on the grid. Satisfies
	// core.TickValidator.
	Validate(value core.Price) error
}

// pow10 mirrors the scaled-integer base used by core prices.
var pow10 = [core.MaxPrecision + 1]int64{
	1,
	10,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
	100_000_000_000,
	1_000_000_000_000,
	10_000_000_000_000,
	100_000_000_000_000,
	1_000_000_000_000_000,
	10_000_000_000_000_000,
}

// rawAt returns the price's scaled integer at the given precision, which
// must be at least the price's own.
func rawAt(p core.Price, precision uint8) int64 {
	return p.Raw() * pow10[precision-p.Precision()]
}

func maxPrec(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
