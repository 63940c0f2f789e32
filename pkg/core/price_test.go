package core

import (
	"errors"
	"testing"
)

func TestPriceFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantRaw   int64
		wantPrec  uint8
		wantError bool
	}{
		{"Integer", "100", 100, 0, false},
		{"TwoDecimals", "100.50", 10050, 2, false},
		{"TrailingZeros", "0.7270", 7270, 4, false},
		{"LeadingDot", ".5", 5, 1, false},
		{"Negative", "-1.25", -125, 2, false},
		{"ExplicitPlus", "+2.027", 2027, 3, false},
		{"Empty", "", 0, 0, true},
		{"TwoDots", "1.2.3", 0, 0, true},
		{"BadDigits", "12x.4", 0, 0, true},
		{"TooManyFractionDigits", "0.12345678901234567", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PriceFromString(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("PriceFromString(%q) expected error, got %v", tt.input, p)
				}
				if !errors.Is(err, ErrInvalidPrice) {
					t.Errorf("expected ErrInvalidPrice, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PriceFromString(%q) unexpected error: %v", tt.input, err)
			}
			if p.Raw() != tt.wantRaw {
				t.Errorf("Raw() = %d, want %d", p.Raw(), tt.wantRaw)
			}
			if p.Precision() != tt.wantPrec {
				t.Errorf("Precision() = %d, want %d", p.Precision(), tt.wantPrec)
			}
		})
	}
}

func TestParsePriceRounding(t *testing.T) {
	tests := []struct {
		input     string
		precision uint8
		want      string
	}{
		{"2.027", 2, "2.03"},
		{"2.024", 2, "2.02"},
		{"2.025", 2, "2.03"},
		{"0.7271", 3, "0.727"},
		{"0.7275", 3, "0.728"},
		{"100", 2, "100.00"},
	}

	for _, tt := range tests {
		p, err := ParsePrice(tt.input, tt.precision)
		if err != nil {
			t.Fatalf("ParsePrice(%q, %d) unexpected error: %v", tt.input, tt.precision, err)
		}
		if got := p.String(); got != tt.want {
			t.Errorf("ParsePrice(%q, %d) = %s, want %s", tt.input, tt.precision, got, tt.want)
		}
	}
}

func TestPriceCompareAcrossPrecision(t *testing.T) {
	a := MustPrice("100.5")
	b := MustPrice("100.50")
	if !a.Equal(b) {
		t.Errorf("100.5 should equal 100.50")
	}

	c := MustPrice("100.501")
	if !a.LessThan(c) {
		t.Errorf("100.5 should be less than 100.501")
	}
	if !c.GreaterThan(b) {
		t.Errorf("100.501 should be greater than 100.50")
	}
}

func TestPriceString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"100.50", "100.50"},
		{"0.001", "0.001"},
		{"-2.05", "-2.05"},
		{"1000", "1000"},
	}

	for _, tt := range tests {
		if got := MustPrice(tt.input).String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestPriceArithmetic(t *testing.T) {
	sum := MustPrice("100.00").Add(MustPrice("0.5"))
	if !sum.Equal(MustPrice("100.50")) {
		t.Errorf("100.00 + 0.5 = %s, want 100.50", sum)
	}

	spread := MustPrice("100.50").Sub(MustPrice("100.00"))
	if !spread.Equal(MustPrice("0.50")) {
		t.Errorf("100.50 - 100.00 = %s, want 0.50", spread)
	}
}

func TestPriceRescale(t *testing.T) {
	p := MustPrice("2.02")

	up, err := p.Rescale(4)
	if err != nil {
		t.Fatalf("Rescale(4) unexpected error: %v", err)
	}
	if up.Raw() != 20200 || up.Precision() != 4 {
		t.Errorf("Rescale(4) = raw %d prec %d, want 20200/4", up.Raw(), up.Precision())
	}

	down, err := up.Rescale(2)
	if err != nil {
		t.Fatalf("Rescale(2) unexpected error: %v", err)
	}
	if !down.Equal(p) {
		t.Errorf("round-trip rescale changed value: %s", down)
	}

	if _, err := MustPrice("2.027").Rescale(2); err == nil {
		t.Errorf("Rescale(2) of 2.027 should fail, value not representable")
	}
}

func TestQuantityNonNegative(t *testing.T) {
	if _, err := QuantityFromString("-1.5"); err == nil {
		t.Errorf("negative quantity should be rejected")
	}
	if _, err := NewQuantity(-10, 2); err == nil {
		t.Errorf("negative raw quantity should be rejected")
	}
}

func TestQuantitySubFloorsAtZero(t *testing.T) {
	got := MustQuantity("1.0").Sub(MustQuantity("2.5"))
	if !got.IsZero() {
		t.Errorf("1.0 - 2.5 = %s, want 0", got)
	}
}
