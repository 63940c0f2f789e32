package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxPrecision is the largest number of fraction digits a Price or
// Quantity can carry.
const MaxPrecision = 16

// pow10 holds powers of ten up to 10^MaxPrecision for scaled-integer math.
var pow10 = [MaxPrecision + 1]int64{
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

// Price is an exact decimal price held as an integer scaled by
// 10^precision. Two prices are only meaningfully comparable when they come
// from the same venue context; comparisons rescale to the larger precision.
type Price struct {
	raw       int64
	precision uint8
}

// NewPrice creates a Price from a raw scaled integer and precision.
func NewPrice(raw int64, precision uint8) (Price, error) {
	if precision > MaxPrecision {
		return Price{}, fmt.Errorf("%w: precision %d exceeds max %d", ErrInvalidPrice, precision, MaxPrecision)
	}
	return Price{raw: raw, precision: precision}, nil
}

// PriceFromString parses a decimal string, inferring precision from the
// number of fraction digits. The parse path never touches float64.
func PriceFromString(s string) (Price, error) {
	raw, precision, err := parseScaledInfer(s)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	return Price{raw: raw, precision: precision}, nil
}

// ParsePrice parses a decimal string at a fixed precision, rounding
// half-up when the input carries excess fraction digits.
func ParsePrice(s string, precision uint8) (Price, error) {
	raw, err := parseScaled(s, precision)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	return Price{raw: raw, precision: precision}, nil
}

// PriceFromFloat converts a float64 at the given precision. Boundary use
// only; internal arithmetic stays on raw integers.
func PriceFromFloat(value float64, precision uint8) (Price, error) {
	if precision > MaxPrecision {
		return Price{}, fmt.Errorf("%w: precision %d exceeds max %d", ErrInvalidPrice, precision, MaxPrecision)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Price{}, fmt.Errorf("%w: non-finite value", ErrInvalidPrice)
	}
	scaled := value * float64(pow10[precision])
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return Price{}, fmt.Errorf("%w: value %v overflows at precision %d", ErrInvalidPrice, value, precision)
	}
	return Price{raw: int64(math.Round(scaled)), precision: precision}, nil
}

// MustPrice parses a decimal string and panics on error. Intended for
// constants and tests.
func MustPrice(s string) Price {
	p, err := PriceFromString(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Raw returns the scaled integer representation.
func (p Price) Raw() int64 { return p.raw }

// Precision returns the number of fraction digits.
func (p Price) Precision() uint8 { return p.precision }

// Float64 returns the price as a float. For display and reporting only.
func (p Price) Float64() float64 {
	return float64(p.raw) / float64(pow10[p.precision])
}

// String renders the price with exactly Precision fraction digits.
func (p Price) String() string {
	return formatScaled(p.raw, p.precision)
}

// Compare returns -1, 0 or 1. Operands of differing precision are
// rescaled to the larger precision before comparing raw values.
func (p Price) Compare(other Price) int {
	a, b := alignRaw(p.raw, p.precision, other.raw, other.precision)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two prices represent the same decimal value.
func (p Price) Equal(other Price) bool { return p.Compare(other) == 0 }

// LessThan reports p < other.
func (p Price) LessThan(other Price) bool { return p.Compare(other) < 0 }

// LessThanOrEqual reports p <= other.
func (p Price) LessThanOrEqual(other Price) bool { return p.Compare(other) <= 0 }

// GreaterThan reports p > other.
func (p Price) GreaterThan(other Price) bool { return p.Compare(other) > 0 }

// GreaterThanOrEqual reports p >= other.
func (p Price) GreaterThanOrEqual(other Price) bool { return p.Compare(other) >= 0 }

// IsZero reports whether the price is exactly zero.
func (p Price) IsZero() bool { return p.raw == 0 }

// IsPositive reports whether the price is greater than zero.
func (p Price) IsPositive() bool { return p.raw > 0 }

// IsNegative reports whether the price is less than zero.
func (p Price) IsNegative() bool { return p.raw < 0 }

// Add returns p + other at the larger of the two precisions.
func (p Price) Add(other Price) Price {
	a, b := alignRaw(p.raw, p.precision, other.raw, other.precision)
	return Price{raw: a + b, precision: maxPrecision(p.precision, other.precision)}
}

// Sub returns p - other at the larger of the two precisions.
func (p Price) Sub(other Price) Price {
	a, b := alignRaw(p.raw, p.precision, other.raw, other.precision)
	return Price{raw: a - b, precision: maxPrecision(p.precision, other.precision)}
}

// Rescale returns the price expressed at a different precision.
// Reducing precision fails unless the value is exactly representable.
func (p Price) Rescale(precision uint8) (Price, error) {
	if precision > MaxPrecision {
		return Price{}, fmt.Errorf("%w: precision %d exceeds max %d", ErrInvalidPrice, precision, MaxPrecision)
	}
	if precision == p.precision {
		return p, nil
	}
	if precision > p.precision {
		return Price{raw: p.raw * pow10[precision-p.precision], precision: precision}, nil
	}
	div := pow10[p.precision-precision]
	if p.raw%div != 0 {
		return Price{}, fmt.Errorf("%w: %s not representable at precision %d", ErrInvalidPrice, p.String(), precision)
	}
	return Price{raw: p.raw / div, precision: precision}, nil
}

// Quantity is a non-negative exact decimal size with the same scaled
// integer contract as Price.
type Quantity struct {
	raw       int64
	precision uint8
}

// NewQuantity creates a Quantity from a raw scaled integer and precision.
func NewQuantity(raw int64, precision uint8) (Quantity, error) {
	if precision > MaxPrecision {
		return Quantity{}, fmt.Errorf("%w: precision %d exceeds max %d", ErrInvalidQuantity, precision, MaxPrecision)
	}
	if raw < 0 {
		return Quantity{}, fmt.Errorf("%w: negative raw value %d", ErrInvalidQuantity, raw)
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// QuantityFromString parses a decimal string, inferring precision from
// the fraction digits.
func QuantityFromString(s string) (Quantity, error) {
	raw, precision, err := parseScaledInfer(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
	}
	if raw < 0 {
		return Quantity{}, fmt.Errorf("%w: negative value %q", ErrInvalidQuantity, s)
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// ParseQuantity parses a decimal string at a fixed precision.
func ParseQuantity(s string, precision uint8) (Quantity, error) {
	raw, err := parseScaled(s, precision)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
	}
	if raw < 0 {
		return Quantity{}, fmt.Errorf("%w: negative value %q", ErrInvalidQuantity, s)
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// MustQuantity parses a decimal string and panics on error.
func MustQuantity(s string) Quantity {
	q, err := QuantityFromString(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Raw returns the scaled integer representation.
func (q Quantity) Raw() int64 { return q.raw }

// Precision returns the number of fraction digits.
func (q Quantity) Precision() uint8 { return q.precision }

// Float64 returns the quantity as a float. For display and reporting only.
func (q Quantity) Float64() float64 {
	return float64(q.raw) / float64(pow10[q.precision])
}

// String renders the quantity with exactly Precision fraction digits.
func (q Quantity) String() string {
	return formatScaled(q.raw, q.precision)
}

// Compare returns -1, 0 or 1 after rescaling to the larger precision.
func (q Quantity) Compare(other Quantity) int {
	a, b := alignRaw(q.raw, q.precision, other.raw, other.precision)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two quantities represent the same decimal value.
func (q Quantity) Equal(other Quantity) bool { return q.Compare(other) == 0 }

// LessThan reports q < other.
func (q Quantity) LessThan(other Quantity) bool { return q.Compare(other) < 0 }

// GreaterThan reports q > other.
func (q Quantity) GreaterThan(other Quantity) bool { return q.Compare(other) > 0 }

// GreaterThanOrEqual reports q >= other.
func (q Quantity) GreaterThanOrEqual(other Quantity) bool { return q.Compare(other) >= 0 }

// IsZero reports whether the quantity is exactly zero.
func (q Quantity) IsZero() bool { return q.raw == 0 }

// IsPositive reports whether the quantity is greater than zero.
func (q Quantity) IsPositive() bool { return q.raw > 0 }

// Add returns q + other at the larger of the two precisions.
func (q Quantity) Add(other Quantity) Quantity {
	a, b := alignRaw(q.raw, q.precision, other.raw, other.precision)
	return Quantity{raw: a + b, precision: maxPrecision(q.precision, other.precision)}
}

// Sub returns q - other at the larger of the two precisions. The result
// floors at zero; level accounting never goes negative.
func (q Quantity) Sub(other Quantity) Quantity {
	a, b := alignRaw(q.raw, q.precision, other.raw, other.precision)
	raw := a - b
	if raw < 0 {
		raw = 0
	}
	return Quantity{raw: raw, precision: maxPrecision(q.precision, other.precision)}
}

// alignRaw rescales two raw values to a common precision.
func alignRaw(aRaw int64, aPrec uint8, bRaw int64, bPrec uint8) (int64, int64) {
	if aPrec == bPrec {
		return aRaw, bRaw
	}
	if aPrec < bPrec {
		return aRaw * pow10[bPrec-aPrec], bRaw
	}
	return aRaw, bRaw * pow10[aPrec-bPrec]
}

func maxPrecision(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// parseScaledInfer parses a decimal string into a raw scaled integer,
// inferring the precision from the fraction digits present.
func parseScaledInfer(s string) (int64, uint8, error) {
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		frac = s[idx+1:]
	}
	if len(frac) > MaxPrecision {
		return 0, 0, fmt.Errorf("too many fraction digits in %q (max %d)", s, MaxPrecision)
	}
	precision := uint8(len(frac))
	raw, err := parseScaled(s, precision)
	if err != nil {
		return 0, 0, err
	}
	return raw, precision, nil
}

// parseScaled parses a decimal string into an integer scaled by
// 10^precision, rounding half-up on excess fraction digits. No float64
// is involved anywhere on this path.
func parseScaled(s string, precision uint8) (int64, error) {
	if precision > MaxPrecision {
		return 0, fmt.Errorf("precision %d exceeds max %d", precision, MaxPrecision)
	}
	if s == "" {
		return 0, fmt.Errorf("empty decimal string")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid decimal %q: multiple dots", s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("invalid decimal %q", s)
	}

	var intVal int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer part in %q: %v", s, err)
		}
		intVal = v
	}

	// Round half-up when the input carries more digits than the target
	// precision.
	roundUp := false
	if len(fracPart) > int(precision) {
		if fracPart[precision] >= '5' {
			roundUp = true
		}
		fracPart = fracPart[:precision]
	}

	var fracVal int64
	if fracPart != "" {
		v, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fraction part in %q: %v", s, err)
		}
		fracVal = v
		for i := len(fracPart); i < int(precision); i++ {
			fracVal *= 10
		}
	}
	if roundUp {
		fracVal++
	}

	mult := pow10[precision]
	if intVal > (math.MaxInt64-fracVal)/mult {
		return 0, fmt.Errorf("decimal %q overflows int64 at precision %d", s, precision)
	}
	total := intVal*mult + fracVal
	if neg {
		total = -total
	}
	return total, nil
}

// formatScaled renders a raw scaled integer with the given fraction digits.
func formatScaled(raw int64, precision uint8) string {
	neg := raw < 0
	if neg {
		raw = -raw
	}
	mult := pow10[precision]
	intPart := raw / mult
	fracPart := raw % mult

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(strconv.FormatInt(intPart, 10))
	if precision > 0 {
		sb.WriteByte('.')
		frac := strconv.FormatInt(fracPart, 10)
		for i := len(frac); i < int(precision); i++ {
			sb.WriteByte('0')
		}
		sb.WriteString(frac)
	}
	return sb.String()
}
