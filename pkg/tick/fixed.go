package tick

import (
	"fmt"

	"github.com/erain9/tickbook/pkg/core"
)

// FixedTickScheme is a grid with one constant increment across the whole
// price range. All operations are integer arithmetic on the scaled
// representation; no tick table is materialized.
type FixedTickScheme struct {
	name      string
	increment core.Price
	minPrice  core.Price
	maxPrice  core.Price
	precision uint8
}

var _ TickScheme = (*FixedTickScheme)(nil)

// NewFixedTickScheme builds a constant-increment scheme. The grid is the
// set of positive multiples of increment; minPrice and maxPrice must lie
// on it.
func NewFixedTickScheme(name string, increment, minPrice, maxPrice core.Price) (*FixedTickScheme, error) {
	if name == "" {
		return nil, fmt.Errorf("tick scheme name must not be empty")
	}
	if !increment.IsPositive() {
		return nil, fmt.Errorf("increment must be positive, got %s", increment)
	}
	if !minPrice.IsPositive() {
		return nil, fmt.Errorf("min price must be positive, got %s", minPrice)
	}
	if !minPrice.LessThanOrEqual(maxPrice) {
		return nil, fmt.Errorf("min price %s exceeds max price %s", minPrice, maxPrice)
	}

	precision := maxPrec(increment.Precision(), maxPrec(minPrice.Precision(), maxPrice.Precision()))
	increment, err := increment.Rescale(precision)
	if err != nil {
		return nil, err
	}
	minPrice, err = minPrice.Rescale(precision)
	if err != nil {
		return nil, err
	}
	maxPrice, err = maxPrice.Rescale(precision)
	if err != nil {
		return nil, err
	}
	if minPrice.Raw()%increment.Raw() != 0 {
		return nil, fmt.Errorf("min price %s is not a multiple of increment %s", minPrice, increment)
	}
	if maxPrice.Raw()%increment.Raw() != 0 {
		return nil, fmt.Errorf("max price %s is not a multiple of increment %s", maxPrice, increment)
	}

	return &FixedTickScheme{
		name:      name,
		increment: increment,
		minPrice:  minPrice,
		maxPrice:  maxPrice,
		precision: precision,
	}, nil
}

// Name returns the scheme name.
func (s *FixedTickScheme) Name() string { return s.name }

// MinPrice returns the lowest valid tick.
func (s *FixedTickScheme) MinPrice() core.Price { return s.minPrice }

// MaxPrice returns the highest valid tick.
func (s *FixedTickScheme) MaxPrice() core.Price { return s.maxPrice }

// Precision returns the scheme's price precision.
func (s *FixedTickScheme) Precision() uint8 { return s.precision }

// Increment returns the constant tick size.
func (s *FixedTickScheme) Increment() core.Price { return s.increment }

// grid computes the floor tick of value and the increment, both scaled
// to a common precision, after range-checking the value.
func (s *FixedTickScheme) grid(value core.Price) (vRaw, incRaw int64, common uint8, err error) {
	if value.LessThan(s.minPrice) || value.GreaterThan(s.maxPrice) {
		return 0, 0, 0, fmt.Errorf("%w: %s outside [%s, %s] on %s",
			ErrPriceOutOfRange, value, s.minPrice, s.maxPrice, s.name)
	}
	common = maxPrec(s.precision, value.Precision())
	return rawAt(value, common), rawAt(s.increment, common), common, nil
}

// tickAt converts a raw multiple-of-increment value at the common
// precision back to a Price at the scheme precision. Exact by
// construction.
func (s *FixedTickScheme) tickAt(raw int64, common uint8) core.Price {
	price, _ := core.NewPrice(raw/pow10[common-s.precision], s.precision)
	return price
}

// RoundToTick snaps value onto the grid. On-grid values are returned
// unchanged for every direction; RoundNearest breaks ties upward.
func (s *FixedTickScheme) RoundToTick(value core.Price, direction RoundDirection) (core.Price, error) {
	vRaw, incRaw, common, err := s.grid(value)
	if err != nil {
		return core.Price{}, err
	}
	down := (vRaw / incRaw) * incRaw
	if down == vRaw {
		return s.tickAt(down, common), nil
	}
	up := down + incRaw
	switch direction {
	case RoundDown:
		return s.tickAt(down, common), nil
	case RoundUp:
		return s.tickAt(up, common), nil
	default:
		if (vRaw-down)*2 >= incRaw {
			return s.tickAt(up, common), nil
		}
		return s.tickAt(down, common), nil
	}
}

// NextAskPrice returns the n-th tick in a walk upward from value. The
// walk starts at the first tick strictly above value.
func (s *FixedTickScheme) NextAskPrice(value core.Price, n int) (core.Price, error) {
	if n < 0 {
		return core.Price{}, fmt.Errorf("n must be non-negative, got %d", n)
	}
	vRaw, incRaw, common, err := s.grid(value)
	if err != nil {
		return core.Price{}, err
	}
	raw := (vRaw/incRaw + 1 + int64(n)) * incRaw
	if raw > rawAt(s.maxPrice, common) {
		return core.Price{}, fmt.Errorf("%w: ask walk from %s by %d ticks exceeds max %s on %s",
			ErrPriceOutOfRange, value, n, s.maxPrice, s.name)
	}
	return s.tickAt(raw, common), nil
}

// NextBidPrice returns the n-th tick in a walk downward from value. The
// walk starts at the largest tick at or below value.
func (s *FixedTickScheme) NextBidPrice(value core.Price, n int) (core.Price, error) {
	if n < 0 {
		return core.Price{}, fmt.Errorf("n must be non-negative, got %d", n)
	}
	vRaw, incRaw, common, err := s.grid(value)
	if err != nil {
		return core.Price{}, err
	}
	raw := (vRaw/incRaw - int64(n)) * incRaw
	if raw < rawAt(s.minPrice, common) {
		return core.Price{}, fmt.Errorf("%w: bid walk from %s by %d ticks falls below min %s on %s",
			ErrPriceOutOfRange, value, n, s.minPrice, s.name)
	}
	return s.tickAt(raw, common), nil
}

// NextAskPrices returns n consecutive ask ticks walking up from value.
func (s *FixedTickScheme) NextAskPrices(value core.Price, n int) ([]core.Price, error) {
	return collectTicks(n, func(i int) (core.Price, error) { return s.NextAskPrice(value, i) })
}

// NextBidPrices returns n consecutive bid ticks walking down from value.
func (s *FixedTickScheme) NextBidPrices(value core.Price, n int) ([]core.Price, error) {
	return collectTicks(n, func(i int) (core.Price, error) { return s.NextBidPrice(value, i) })
}

// FindTickIndex returns the ordinal of the largest tick at or below
// value, counting from MinPrice as index zero.
func (s *FixedTickScheme) FindTickIndex(value core.Price) (int, error) {
	vRaw, incRaw, common, err := s.grid(value)
	if err != nil {
		return 0, err
	}
	return int(vRaw/incRaw - rawAt(s.minPrice, common)/incRaw), nil
}

// Validate reports whether value is a valid tick of this scheme.
func (s *FixedTickScheme) Validate(value core.Price) error {
	vRaw, incRaw, _, err := s.grid(value)
	if err != nil {
		return err
	}
	if vRaw%incRaw != 0 {
		return fmt.Errorf("%w: %s is not a multiple of %s on %s",
			ErrOffTick, value, s.increment, s.name)
	}
	return nil
}

func collectTicks(n int, at func(int) (core.Price, error)) ([]core.Price, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive, got %d", n)
	}
	out := make([]core.Price, 0, n)
	for i := 0; i < n; i++ {
		p, err := at(i)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
