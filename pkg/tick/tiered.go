package tick

import (
	"fmt"
	"sort"

	"github.com/erain9/tickbook/pkg/core"
)

// Tier is one band of a tiered grid: ticks step by Increment from Start
// up to but excluding Stop. The next tier's Start continues the ladder.
type Tier struct {
	Start     core.Price
	Stop      core.Price
	Increment core.Price
}

// TieredTickScheme is a grid whose increment changes across price bands,
// as on betting and equity venues. The full tick table is expanded once
// at construction; lookups are binary searches over it.
type TieredTickScheme struct {
	name      string
	tiers     []Tier
	ticks     []int64
	precision uint8
	minPrice  core.Price
	maxPrice  core.Price
}

var _ TickScheme = (*TieredTickScheme)(nil)

// NewTieredTickScheme expands the tier table into the tick array. Tiers
// must be in ascending price order and produce a strictly increasing
// ladder.
func NewTieredTickScheme(name string, tiers []Tier) (*TieredTickScheme, error) {
	if name == "" {
		return nil, fmt.Errorf("tick scheme name must not be empty")
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tick scheme %s has no tiers", name)
	}

	var precision uint8
	for _, tier := range tiers {
		precision = maxPrec(precision, tier.Start.Precision())
		precision = maxPrec(precision, tier.Stop.Precision())
		precision = maxPrec(precision, tier.Increment.Precision())
	}

	var ticks []int64
	for i, tier := range tiers {
		start := rawAt(tier.Start, precision)
		stop := rawAt(tier.Stop, precision)
		inc := rawAt(tier.Increment, precision)
		if inc <= 0 {
			return nil, fmt.Errorf("tier %d of %s: increment must be positive", i, name)
		}
		if start <= 0 || start >= stop {
			return nil, fmt.Errorf("tier %d of %s: invalid band [%s, %s)", i, name, tier.Start, tier.Stop)
		}
		for cur := start; cur < stop; cur += inc {
			if len(ticks) > 0 && cur <= ticks[len(ticks)-1] {
				continue
			}
			ticks = append(ticks, cur)
		}
	}
	if len(ticks) == 0 {
		return nil, fmt.Errorf("tick scheme %s expanded to an empty ladder", name)
	}

	minPrice, _ := core.NewPrice(ticks[0], precision)
	maxPrice, _ := core.NewPrice(ticks[len(ticks)-1], precision)
	return &TieredTickScheme{
		name:      name,
		tiers:     tiers,
		ticks:     ticks,
		precision: precision,
		minPrice:  minPrice,
		maxPrice:  maxPrice,
	}, nil
}

// Name returns the scheme name.
func (s *TieredTickScheme) Name() string { return s.name }

// MinPrice returns the lowest valid tick.
func (s *TieredTickScheme) MinPrice() core.Price { return s.minPrice }

// MaxPrice returns the highest valid tick.
func (s *TieredTickScheme) MaxPrice() core.Price { return s.maxPrice }

// Precision returns the scheme's price precision.
func (s *TieredTickScheme) Precision() uint8 { return s.precision }

// TickCount returns the number of ticks in the expanded ladder.
func (s *TieredTickScheme) TickCount() int { return len(s.ticks) }

// checkRange rejects values outside the ladder and returns the value's
// raw form at a common precision together with the multiplier that
// brings stored ticks to that precision.
func (s *TieredTickScheme) checkRange(value core.Price) (vRaw, mult int64, err error) {
	if value.LessThan(s.minPrice) || value.GreaterThan(s.maxPrice) {
		return 0, 0, fmt.Errorf("%w: %s outside [%s, %s] on %s",
			ErrPriceOutOfRange, value, s.minPrice, s.maxPrice, s.name)
	}
	common := maxPrec(s.precision, value.Precision())
	return rawAt(value, common), pow10[common-s.precision], nil
}

// floorIndex returns the index of the largest tick at or below vRaw,
// where stored ticks are compared scaled by mult.
func (s *TieredTickScheme) floorIndex(vRaw, mult int64) int {
	// First tick strictly above vRaw.
	above := sort.Search(len(s.ticks), func(i int) bool {
		return s.ticks[i]*mult > vRaw
	})
	return above - 1
}

func (s *TieredTickScheme) tickPrice(i int) core.Price {
	price, _ := core.NewPrice(s.ticks[i], s.precision)
	return price
}

// RoundToTick snaps value onto the ladder. On-tick values are returned
// unchanged for every direction; RoundNearest breaks ties upward.
func (s *TieredTickScheme) RoundToTick(value core.Price, direction RoundDirection) (core.Price, error) {
	vRaw, mult, err := s.checkRange(value)
	if err != nil {
		return core.Price{}, err
	}
	lo := s.floorIndex(vRaw, mult)
	if s.ticks[lo]*mult == vRaw {
		return s.tickPrice(lo), nil
	}
	hi := lo + 1
	switch direction {
	case RoundDown:
		return s.tickPrice(lo), nil
	case RoundUp:
		return s.tickPrice(hi), nil
	default:
		downGap := vRaw - s.ticks[lo]*mult
		upGap := s.ticks[hi]*mult - vRaw
		if downGap >= upGap {
			return s.tickPrice(hi), nil
		}
		return s.tickPrice(lo), nil
	}
}

// NextAskPrice returns the n-th tick in a walk upward from value,
// starting at the first tick strictly above it.
func (s *TieredTickScheme) NextAskPrice(value core.Price, n int) (core.Price, error) {
	if n < 0 {
		return core.Price{}, fmt.Errorf("n must be non-negative, got %d", n)
	}
	vRaw, mult, err := s.checkRange(value)
	if err != nil {
		return core.Price{}, err
	}
	idx := s.floorIndex(vRaw, mult) + 1 + n
	if idx >= len(s.ticks) {
		return core.Price{}, fmt.Errorf("%w: ask walk from %s by %d ticks exceeds max %s on %s",
			ErrPriceOutOfRange, value, n, s.maxPrice, s.name)
	}
	return s.tickPrice(idx), nil
}

// NextBidPrice returns the n-th tick in a walk downward from value,
// starting at the largest tick at or below it.
func (s *TieredTickScheme) NextBidPrice(value core.Price, n int) (core.Price, error) {
	if n < 0 {
		return core.Price{}, fmt.Errorf("n must be non-negative, got %d", n)
	}
	vRaw, mult, err := s.checkRange(value)
	if err != nil {
		return core.Price{}, err
	}
	idx := s.floorIndex(vRaw, mult) - n
	if idx < 0 {
		return core.Price{}, fmt.Errorf("%w: bid walk from %s by %d ticks falls below min %s on %s",
			ErrPriceOutOfRange, value, n, s.minPrice, s.name)
	}
	return s.tickPrice(idx), nil
}

// NextAskPrices returns n consecutive ask ticks walking up from value.
func (s *TieredTickScheme) NextAskPrices(value core.Price, n int) ([]core.Price, error) {
	return collectTicks(n, func(i int) (core.Price, error) { return s.NextAskPrice(value, i) })
}

// NextBidPrices returns n consecutive bid ticks walking down from value.
func (s *TieredTickScheme) NextBidPrices(value core.Price, n int) ([]core.Price, error) {
	return collectTicks(n, func(i int) (core.Price, error) { return s.NextBidPrice(value, i) })
}

// FindTickIndex returns the ordinal of the largest tick at or below
// value; MinPrice has index zero.
func (s *TieredTickScheme) FindTickIndex(value core.Price) (int, error) {
	vRaw, mult, err := s.checkRange(value)
	if err != nil {
		return 0, err
	}
	return s.floorIndex(vRaw, mult), nil
}

// Validate reports whether value is a valid tick of this scheme.
func (s *TieredTickScheme) Validate(value core.Price) error {
	vRaw, mult, err := s.checkRange(value)
	if err != nil {
		return err
	}
	lo := s.floorIndex(vRaw, mult)
	if s.ticks[lo]*mult != vRaw {
		return fmt.Errorf("%w: %s is not a tick of %s", ErrOffTick, value, s.name)
	}
	return nil
}
