// Command replay drives an order book with a synthetic delta stream and
// reports apply latencies. Useful for sizing a feed handler before
// pointing it at a real venue.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/fatih/color"
	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/erain9/tickbook/pkg/core"
	"github.com/erain9/tickbook/pkg/logging"
)

type replayConfig struct {
	InstrumentID   string
	NumDeltas      int
	RatePerSecond  int
	PricePrecision uint8
	MidPrice       float64
	LevelSpan      int
	Seed           int64
	LogLevel       string
}

func loadReplayConfig() *replayConfig {
	v := viper.New()

	v.SetDefault("REPLAY_INSTRUMENT", "SYN/USD")
	v.SetDefault("REPLAY_NUM_DELTAS", 100000)
	v.SetDefault("REPLAY_RATE_PER_SECOND", 50000)
	v.SetDefault("REPLAY_PRICE_PRECISION", 3)
	v.SetDefault("REPLAY_MID_PRICE", 100.0)
	v.SetDefault("REPLAY_LEVEL_SPAN", 50)
	v.SetDefault("REPLAY_SEED", 42)
	v.SetDefault("REPLAY_LOG_LEVEL", "info")

	v.AutomaticEnv()

	return &replayConfig{
		InstrumentID:   v.GetString("REPLAY_INSTRUMENT"),
		NumDeltas:      v.GetInt("REPLAY_NUM_DELTAS"),
		RatePerSecond:  v.GetInt("REPLAY_RATE_PER_SECOND"),
		PricePrecision: uint8(v.GetInt("REPLAY_PRICE_PRECISION")),
		MidPrice:       v.GetFloat64("REPLAY_MID_PRICE"),
		LevelSpan:      v.GetInt("REPLAY_LEVEL_SPAN"),
		Seed:           v.GetInt64("REPLAY_SEED"),
		LogLevel:       v.GetString("REPLAY_LOG_LEVEL"),
	}
}

func main() {
	cfg := loadReplayConfig()
	logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, stopping replay")
		cancel()
	}()

	book, err := core.NewOrderBook(cfg.InstrumentID, cfg.PricePrecision)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create order book")
	}

	gen := newDeltaGenerator(cfg)
	if _, err := book.ApplySnapshot(gen.seedSnapshot()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed book")
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RatePerSecond)
	hist := hdrhistogram.New(1, 10_000_000, 3) // microseconds

	log.Info().
		Str("instrument_id", cfg.InstrumentID).
		Int("deltas", cfg.NumDeltas).
		Int("rate_per_second", cfg.RatePerSecond).
		Msg("Starting replay")

	applied, rejected, crossed := 0, 0, 0
	start := time.Now()
	for i := 0; i < cfg.NumDeltas; i++ {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		delta := gen.next()
		applyStart := time.Now()
		warn, err := book.ApplyDelta(delta)
		elapsed := time.Since(applyStart).Microseconds()
		if elapsed < 1 {
			elapsed = 1
		}
		hist.RecordValue(elapsed)
		if err != nil {
			rejected++
			continue
		}
		applied++
		if warn != nil {
			crossed++
		}
	}
	duration := time.Since(start)

	report(book, hist, duration, applied, rejected, crossed)
}

func report(book *core.OrderBook, hist *hdrhistogram.Histogram, duration time.Duration, applied, rejected, crossed int) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Println("\nReplay complete")
	fmt.Printf("  duration:        %v\n", duration)
	green.Printf("  applied:         %d (%.0f/s)\n", applied, float64(applied)/duration.Seconds())
	if rejected > 0 {
		yellow.Printf("  rejected:        %d\n", rejected)
	}
	if crossed > 0 {
		yellow.Printf("  crossed events:  %d\n", crossed)
	}
	fmt.Printf("  bid levels:      %d\n", book.BidCount())
	fmt.Printf("  ask levels:      %d\n", book.AskCount())

	bold.Println("\nApply latency (us)")
	fmt.Printf("  p50:  %d\n", hist.ValueAtQuantile(50))
	fmt.Printf("  p90:  %d\n", hist.ValueAtQuantile(90))
	fmt.Printf("  p99:  %d\n", hist.ValueAtQuantile(99))
	fmt.Printf("  max:  %d\n", hist.Max())
}

// deltaGenerator produces a plausible stream of adds, updates and
// deletes around a drifting mid price.
type deltaGenerator struct {
	cfg      *replayConfig
	rng      *rand.Rand
	sequence uint64
	nextID   int
	liveIDs  []string
	sides    map[string]core.Side
	prices   map[string]core.Price
}

func newDeltaGenerator(cfg *replayConfig) *deltaGenerator {
	return &deltaGenerator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		sides:  make(map[string]core.Side),
		prices: make(map[string]core.Price),
	}
}

func (g *deltaGenerator) seedSnapshot() *core.BookSnapshot {
	snap := &core.BookSnapshot{InstrumentID: g.cfg.InstrumentID, Sequence: 1}
	g.sequence = 1
	for i := 1; i <= 10; i++ {
		bidID, askID := g.newID(), g.newID()
		bid := g.priceAt(-i)
		ask := g.priceAt(i)
		snap.Bids = append(snap.Bids, core.SnapshotLevel{
			Price: bid, Quantity: core.MustQuantity("10"), OrderID: bidID,
		})
		snap.Asks = append(snap.Asks, core.SnapshotLevel{
			Price: ask, Quantity: core.MustQuantity("10"), OrderID: askID,
		})
		g.track(bidID, core.Buy, bid)
		g.track(askID, core.Sell, ask)
	}
	return snap
}

func (g *deltaGenerator) next() core.BookDelta {
	g.sequence++
	roll := g.rng.Float64()
	switch {
	case roll < 0.5 || len(g.liveIDs) == 0:
		return g.add()
	case roll < 0.8:
		return g.update()
	default:
		return g.delete()
	}
}

func (g *deltaGenerator) add() core.BookDelta {
	side := core.Buy
	offset := -(1 + g.rng.Intn(g.cfg.LevelSpan))
	if g.rng.Float64() < 0.5 {
		side = core.Sell
		offset = -offset
	}
	id := g.newID()
	price := g.priceAt(offset)
	g.track(id, side, price)
	return core.BookDelta{
		Action:   core.ActionAdd,
		Side:     side,
		Price:    price,
		Quantity: g.quantity(),
		OrderID:  id,
		Sequence: g.sequence,
		TsEvent:  time.Now().UnixNano(),
	}
}

func (g *deltaGenerator) update() core.BookDelta {
	id := g.liveIDs[g.rng.Intn(len(g.liveIDs))]
	return core.BookDelta{
		Action:   core.ActionUpdate,
		Side:     g.sides[id],
		Price:    g.prices[id],
		Quantity: g.quantity(),
		OrderID:  id,
		Sequence: g.sequence,
		TsEvent:  time.Now().UnixNano(),
	}
}

func (g *deltaGenerator) delete() core.BookDelta {
	idx := g.rng.Intn(len(g.liveIDs))
	id := g.liveIDs[idx]
	g.liveIDs[idx] = g.liveIDs[len(g.liveIDs)-1]
	g.liveIDs = g.liveIDs[:len(g.liveIDs)-1]
	side := g.sides[id]
	price := g.prices[id]
	delete(g.sides, id)
	delete(g.prices, id)
	return core.BookDelta{
		Action:   core.ActionDelete,
		Side:     side,
		Price:    price,
		OrderID:  id,
		Sequence: g.sequence,
		TsEvent:  time.Now().UnixNano(),
	}
}

// priceAt renders mid + offset ticks as a decimal string through
// fpdecimal, then parses it at the book precision. Keeps the generator
// honest about what a venue feed actually sends: decimal text.
func (g *deltaGenerator) priceAt(offset int) core.Price {
	step := 1.0 / 1000.0
	value := g.cfg.MidPrice + float64(offset)*step
	text := fpdecimal.FromFloat(value).String()
	price, err := core.ParsePrice(text, g.cfg.PricePrecision)
	if err != nil {
		log.Fatal().Err(err).Str("text", text).Msg("Generated an unparseable price")
	}
	return price
}

func (g *deltaGenerator) quantity() core.Quantity {
	qty, _ := core.NewQuantity(int64(1+g.rng.Intn(100)), 0)
	return qty
}

func (g *deltaGenerator) newID() string {
	g.nextID++
	return fmt.Sprintf("order-%d", g.nextID)
}

func (g *deltaGenerator) track(id string, side core.Side, price core.Price) {
	g.liveIDs = append(g.liveIDs, id)
	g.sides[id] = side
	g.prices[id] = price
}
