package main

import (
	"fmt"

	"github.com/erain9/tickbook/pkg/core"
	"github.com/erain9/tickbook/pkg/tick"
)

func main() {
	// Build the default tick scheme registry
	registry := tick.NewRegistry()
	if err := tick.RegisterDefaults(registry); err != nil {
		panic(err)
	}

	betfair, err := registry.Get(tick.SchemeBetfair)
	if err != nil {
		panic(err)
	}

	// Walk the Betfair ladder around 2.027
	value := core.MustPrice("2.027")
	rounded, err := betfair.RoundToTick(value, tick.RoundUp)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Round %s up on %s: %s\n", value, betfair.Name(), rounded)

	asks, err := betfair.NextAskPrices(value, 3)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Next ask ticks from %s: %v\n", value, asks)

	// Maintain an order book validated against a 3-decimal FX grid
	fx3, err := registry.Get(tick.SchemeForex3Decimal)
	if err != nil {
		panic(err)
	}
	book, err := core.NewOrderBook("EUR/USD", 3, core.WithTickValidator(fx3))
	if err != nil {
		panic(err)
	}

	_, err = book.ApplySnapshot(&core.BookSnapshot{
		InstrumentID: "EUR/USD",
		Bids: []core.SnapshotLevel{
			{Price: core.MustPrice("1.085"), Quantity: core.MustQuantity("100"), OrderID: "b1"},
			{Price: core.MustPrice("1.084"), Quantity: core.MustQuantity("250"), OrderID: "b2"},
		},
		Asks: []core.SnapshotLevel{
			{Price: core.MustPrice("1.086"), Quantity: core.MustQuantity("80"), OrderID: "a1"},
		},
		Sequence: 1,
	})
	if err != nil {
		panic(err)
	}

	bid, _ := book.BestBidPrice()
	ask, _ := book.BestAskPrice()
	spread, _ := book.Spread()
	fmt.Printf("Top of book: %s / %s (spread %s)\n", bid, ask, spread)

	// Delete the best bid; the next level takes over
	_, err = book.ApplyDelta(core.BookDelta{
		Action:   core.ActionDelete,
		Side:     core.Buy,
		Price:    core.MustPrice("1.085"),
		OrderID:  "b1",
		Sequence: 2,
	})
	if err != nil {
		panic(err)
	}
	bid, _ = book.BestBidPrice()
	fmt.Printf("Best bid after delete: %s\n", bid)

	// Off-grid prices are rejected before any mutation
	_, err = book.ApplyDelta(core.BookDelta{
		Action:   core.ActionAdd,
		Side:     core.Buy,
		Price:    core.MustPrice("1.0845"),
		Quantity: core.MustQuantity("10"),
		OrderID:  "bad",
		Sequence: 3,
	})
	fmt.Printf("Off-grid add rejected: %v\n", err)
}
