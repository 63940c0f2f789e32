package config

import (
	"testing"

	"github.com/erain9/tickbook/pkg/core"
	"github.com/erain9/tickbook/pkg/tick"
)

func TestBuildRegistryDefaults(t *testing.T) {
	cfg := &Config{}
	registry, err := cfg.BuildRegistry()
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if _, err := registry.Get(tick.SchemeBetfair); err != nil {
		t.Errorf("built-in BETFAIR missing: %v", err)
	}
}

func TestBuildRegistryCustomSchemes(t *testing.T) {
	cfg := &Config{
		TickSchemes: []TickSchemeConfig{
			{
				Name:      "PENNY",
				Kind:      "fixed",
				MinPrice:  "0.01",
				MaxPrice:  "100.00",
				Increment: "0.01",
			},
			{
				Name: "BANDED",
				Kind: "tiered",
				Tiers: []TierConfig{
					{Start: "1", Stop: "10", Increment: "0.5"},
					{Start: "10", Stop: "101", Increment: "1"},
				},
			},
		},
	}

	registry, err := cfg.BuildRegistry()
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	penny, err := registry.Get("PENNY")
	if err != nil {
		t.Fatalf("Get(PENNY): %v", err)
	}
	got, err := penny.NextAskPrice(core.MustPrice("1.505"), 0)
	if err != nil {
		t.Fatalf("NextAskPrice: %v", err)
	}
	if !got.Equal(core.MustPrice("1.51")) {
		t.Errorf("NextAskPrice(1.505, 0) = %s, want 1.51", got)
	}

	banded, err := registry.Get("BANDED")
	if err != nil {
		t.Fatalf("Get(BANDED): %v", err)
	}
	if !banded.MaxPrice().Equal(core.MustPrice("100")) {
		t.Errorf("MaxPrice() = %s, want 100", banded.MaxPrice())
	}
}

func TestBuildRegistryUnknownKind(t *testing.T) {
	cfg := &Config{
		TickSchemes: []TickSchemeConfig{{Name: "X", Kind: "logarithmic"}},
	}
	if _, err := cfg.BuildRegistry(); err == nil {
		t.Errorf("unknown kind must fail")
	}
}
