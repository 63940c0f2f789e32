package tick

import "github.com/erain9/tickbook/pkg/core"

// Built-in scheme names.
const (
	SchemeBetfair       = "BETFAIR"
	SchemeTopix100      = "TOPIX100"
	SchemeForex3Decimal = "FOREX_3DECIMAL"
	SchemeForex5Decimal = "FOREX_5DECIMAL"
)

func tier(start, stop, increment string) Tier {
	return Tier{
		Start:     core.MustPrice(start),
		Stop:      core.MustPrice(stop),
		Increment: core.MustPrice(increment),
	}
}

// NewBetfairTickScheme builds the Betfair betting odds ladder,
// 1.01 to 1000.
func NewBetfairTickScheme() (*TieredTickScheme, error) {
	return NewTieredTickScheme(SchemeBetfair, []Tier{
		tier("1.01", "2", "0.01"),
		tier("2", "3", "0.02"),
		tier("3", "4", "0.05"),
		tier("4", "6", "0.1"),
		tier("6", "10", "0.2"),
		tier("10", "20", "0.5"),
		tier("20", "30", "1"),
		tier("30", "50", "2"),
		tier("50", "100", "5"),
		tier("100", "1010", "10"),
	})
}

// NewTopix100TickScheme builds the TSE TOPIX 100 banded yen ladder.
func NewTopix100TickScheme() (*TieredTickScheme, error) {
	return NewTieredTickScheme(SchemeTopix100, []Tier{
		tier("0.1", "1000", "0.1"),
		tier("1000", "3000", "0.5"),
		tier("3000", "10000", "1"),
		tier("10000", "30000", "5"),
		tier("30000", "100000", "10"),
		tier("100000", "300000", "50"),
		tier("300000", "1000000", "100"),
		tier("1000000", "3000000", "500"),
		tier("3000000", "10000000", "1000"),
		tier("10000000", "30005000", "5000"),
	})
}

// NewForex3DecimalTickScheme builds a fixed 0.001 grid, as quoted for
// JPY-crossed currency pairs.
func NewForex3DecimalTickScheme() (*FixedTickScheme, error) {
	return NewFixedTickScheme(SchemeForex3Decimal,
		core.MustPrice("0.001"), core.MustPrice("0.001"), core.MustPrice("999.999"))
}

// NewForex5DecimalTickScheme builds a fixed 0.00001 grid, the usual
// non-JPY FX quotation.
func NewForex5DecimalTickScheme() (*FixedTickScheme, error) {
	return NewFixedTickScheme(SchemeForex5Decimal,
		core.MustPrice("0.00001"), core.MustPrice("0.00001"), core.MustPrice("9.99999"))
}

// RegisterDefaults registers every built-in scheme into r.
func RegisterDefaults(r *Registry) error {
	betfair, err := NewBetfairTickScheme()
	if err != nil {
		return err
	}
	topix, err := NewTopix100TickScheme()
	if err != nil {
		return err
	}
	fx3, err := NewForex3DecimalTickScheme()
	if err != nil {
		return err
	}
	fx5, err := NewForex5DecimalTickScheme()
	if err != nil {
		return err
	}
	for _, scheme := range []TickScheme{betfair, topix, fx3, fx5} {
		if err := r.Register(scheme); err != nil {
			return err
		}
	}
	return nil
}
