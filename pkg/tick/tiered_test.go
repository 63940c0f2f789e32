package tick

import (
	"errors"
	"testing"

	"github.com/erain9/tickbook/pkg/core"
)

func newBetfair(t *testing.T) *TieredTickScheme {
	t.Helper()
	s, err := NewBetfairTickScheme()
	if err != nil {
		t.Fatalf("NewBetfairTickScheme: %v", err)
	}
	return s
}

func TestBetfairBounds(t *testing.T) {
	s := newBetfair(t)

	if !s.MinPrice().Equal(core.MustPrice("1.01")) {
		t.Errorf("MinPrice() = %s, want 1.01", s.MinPrice())
	}
	if !s.MaxPrice().Equal(core.MustPrice("1000")) {
		t.Errorf("MaxPrice() = %s, want 1000", s.MaxPrice())
	}
}

func TestBetfairNextAskPrice(t *testing.T) {
	s := newBetfair(t)

	got, err := s.NextAskPrice(core.MustPrice("2.027"), 2)
	if err != nil {
		t.Fatalf("NextAskPrice(2.027, 2): %v", err)
	}
	if !got.Equal(core.MustPrice("2.08")) {
		t.Errorf("NextAskPrice(2.027, 2) = %s, want 2.08", got)
	}
}

func TestBetfairFindTickIndex(t *testing.T) {
	s := newBetfair(t)

	tests := []struct {
		value string
		want  int
	}{
		{"1.01", 0},
		{"1.02", 1},
		{"1.015", 0},
		{"2.00", 99},
		{"1000", s.TickCount() - 1},
	}
	for _, tt := range tests {
		got, err := s.FindTickIndex(core.MustPrice(tt.value))
		if err != nil {
			t.Fatalf("FindTickIndex(%s): %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("FindTickIndex(%s) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestBetfairRoundAcrossBands(t *testing.T) {
	s := newBetfair(t)

	tests := []struct {
		value     string
		direction RoundDirection
		want      string
	}{
		{"2.027", RoundDown, "2.02"},
		{"2.027", RoundUp, "2.04"},
		{"2.027", RoundNearest, "2.02"},
		{"2.03", RoundNearest, "2.04"},
		// Band boundary: 2 closes the 0.01 band and opens the 0.02 band.
		{"1.995", RoundUp, "2.00"},
		{"2.01", RoundNearest, "2.02"},
		{"3.01", RoundDown, "3.00"},
		{"3.04", RoundUp, "3.05"},
		// On-tick stays for every direction.
		{"2.02", RoundDown, "2.02"},
		{"2.02", RoundUp, "2.02"},
		{"2.02", RoundNearest, "2.02"},
	}
	for _, tt := range tests {
		got, err := s.RoundToTick(core.MustPrice(tt.value), tt.direction)
		if err != nil {
			t.Fatalf("RoundToTick(%s, %s): %v", tt.value, tt.direction, err)
		}
		if !got.Equal(core.MustPrice(tt.want)) {
			t.Errorf("RoundToTick(%s, %s) = %s, want %s", tt.value, tt.direction, got, tt.want)
		}
	}
}

func TestBetfairWalkAcrossBandBoundary(t *testing.T) {
	s := newBetfair(t)

	// 1.99 is the last tick of the 0.01 band; the walk continues into
	// the 0.02 band.
	asks, err := s.NextAskPrices(core.MustPrice("1.98"), 4)
	if err != nil {
		t.Fatalf("NextAskPrices: %v", err)
	}
	want := []string{"1.99", "2.00", "2.02", "2.04"}
	for i, w := range want {
		if !asks[i].Equal(core.MustPrice(w)) {
			t.Errorf("asks[%d] = %s, want %s", i, asks[i], w)
		}
	}

	bids, err := s.NextBidPrices(core.MustPrice("2.03"), 3)
	if err != nil {
		t.Fatalf("NextBidPrices: %v", err)
	}
	wantBids := []string{"2.02", "2.00", "1.99"}
	for i, w := range wantBids {
		if !bids[i].Equal(core.MustPrice(w)) {
			t.Errorf("bids[%d] = %s, want %s", i, bids[i], w)
		}
	}
}

func TestBetfairOutOfRange(t *testing.T) {
	s := newBetfair(t)

	if _, err := s.RoundToTick(core.MustPrice("1.005"), RoundNearest); !errors.Is(err, ErrPriceOutOfRange) {
		t.Errorf("below min: expected ErrPriceOutOfRange, got %v", err)
	}
	if _, err := s.NextAskPrice(core.MustPrice("1000"), 0); !errors.Is(err, ErrPriceOutOfRange) {
		t.Errorf("ask walk past max: expected ErrPriceOutOfRange, got %v", err)
	}
	if _, err := s.NextBidPrice(core.MustPrice("1.01"), 1); !errors.Is(err, ErrPriceOutOfRange) {
		t.Errorf("bid walk past min: expected ErrPriceOutOfRange, got %v", err)
	}
}

func TestBetfairValidate(t *testing.T) {
	s := newBetfair(t)

	if err := s.Validate(core.MustPrice("2.02")); err != nil {
		t.Errorf("2.02 is a Betfair tick: %v", err)
	}
	if err := s.Validate(core.MustPrice("2.03")); !errors.Is(err, ErrOffTick) {
		t.Errorf("2.03 is not a Betfair tick, expected ErrOffTick, got %v", err)
	}
}

func TestTopix100Bands(t *testing.T) {
	s, err := NewTopix100TickScheme()
	if err != nil {
		t.Fatalf("NewTopix100TickScheme: %v", err)
	}

	if !s.MaxPrice().Equal(core.MustPrice("30000000")) {
		t.Errorf("MaxPrice() = %s, want 30000000", s.MaxPrice())
	}

	got, err := s.NextAskPrice(core.MustPrice("999.9"), 1)
	if err != nil {
		t.Fatalf("NextAskPrice: %v", err)
	}
	// The band above 1000 steps by 0.5.
	if !got.Equal(core.MustPrice("1000.5")) {
		t.Errorf("NextAskPrice(999.9, 1) = %s, want 1000.5", got)
	}
}

func TestNewTieredTickSchemeValidation(t *testing.T) {
	if _, err := NewTieredTickScheme("EMPTY", nil); err == nil {
		t.Errorf("empty tier table must be rejected")
	}
	bad := []Tier{{
		Start:     core.MustPrice("2"),
		Stop:      core.MustPrice("1"),
		Increment: core.MustPrice("0.1"),
	}}
	if _, err := NewTieredTickScheme("BAD", bad); err == nil {
		t.Errorf("inverted band must be rejected")
	}
}
