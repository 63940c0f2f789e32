package core

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/erain9/tickbook/pkg/otel"
)

// TickValidator checks a price against a venue price grid. Implemented
// by tick schemes; defined here so the book does not depend on them.
type TickValidator interface {
	Validate(price Price) error
}

// OrderBook maintains one instrument's bid and ask ladders from a
// snapshot-plus-deltas feed. It is single-writer: one goroutine owns all
// mutation. Wrap it in a LockedBook when readers live on other
// goroutines.
type OrderBook struct {
	instrumentID string
	precision    uint8
	bids         *ladder
	asks         *ladder
	state        BookState
	sequence     uint64
	tsLast       int64
	updateCount  uint64
	scheme       TickValidator
	logger       zerolog.Logger
}

// BookOption configures an OrderBook at construction.
type BookOption func(*OrderBook)

// WithTickValidator attaches a price-grid check. When set, every add and
// update price must land on the grid.
func WithTickValidator(v TickValidator) BookOption {
	return func(b *OrderBook) { b.scheme = v }
}

// WithLogger sets the logger used for crossed-book warnings.
func WithLogger(logger zerolog.Logger) BookOption {
	return func(b *OrderBook) { b.logger = logger }
}

// NewOrderBook creates an uninitialized book. All prices are keyed at
// pricePrecision; incoming prices of finer precision are rejected unless
// exactly representable.
func NewOrderBook(instrumentID string, pricePrecision uint8, opts ...BookOption) (*OrderBook, error) {
	if instrumentID == "" {
		return nil, ErrInvalidArgument
	}
	if pricePrecision > MaxPrecision {
		return nil, fmt.Errorf("%w: precision %d exceeds max %d", ErrInvalidArgument, pricePrecision, MaxPrecision)
	}
	b := &OrderBook{
		instrumentID: instrumentID,
		precision:    pricePrecision,
		bids:         newLadder(Buy),
		asks:         newLadder(Sell),
		state:        StateUninitialized,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// InstrumentID returns the instrument this book tracks.
func (b *OrderBook) InstrumentID() string { return b.instrumentID }

// Precision returns the ladder price precision.
func (b *OrderBook) Precision() uint8 { return b.precision }

// State returns the lifecycle state.
func (b *OrderBook) State() BookState { return b.state }

// Sequence returns the sequence number of the last applied message.
func (b *OrderBook) Sequence() uint64 { return b.sequence }

// TsLast returns the event timestamp of the last applied message.
func (b *OrderBook) TsLast() int64 { return b.tsLast }

// UpdateCount returns the number of successfully applied messages.
func (b *OrderBook) UpdateCount() uint64 { return b.updateCount }

// Dispose permanently retires the book. Every later mutation fails with
// ErrBookDisposed.
func (b *OrderBook) Dispose() {
	b.bids.clear()
	b.asks.clear()
	b.state = StateDisposed
}

// ApplySnapshot replaces all book state with the snapshot and moves the
// book to Live. Every row is validated before any state changes, so a
// rejected snapshot leaves the previous image intact.
func (b *OrderBook) ApplySnapshot(snap *BookSnapshot) (*CrossedBookWarning, error) {
	if b.state == StateDisposed {
		return nil, ErrBookDisposed
	}
	bids := newLadder(Buy)
	asks := newLadder(Sell)
	if err := b.loadSide(bids, Buy, snap.Bids); err != nil {
		return nil, err
	}
	if err := b.loadSide(asks, Sell, snap.Asks); err != nil {
		return nil, err
	}
	b.bids = bids
	b.asks = asks
	b.state = StateLive
	b.sequence = snap.Sequence
	b.tsLast = snap.TsEvent
	b.updateCount++
	otel.IncSnapshotsApplied(b.instrumentID)
	return b.checkCrossed(), nil
}

func (b *OrderBook) loadSide(l *ladder, side Side, rows []SnapshotLevel) error {
	for i, row := range rows {
		price, err := row.Price.Rescale(b.precision)
		if err != nil {
			return fmt.Errorf("%w: %s row %d: %v", ErrInvalidDelta, side, i, err)
		}
		if err := b.validateGrid(price); err != nil {
			return fmt.Errorf("%w: %s row %d: %v", ErrInvalidDelta, side, i, err)
		}
		if !row.Quantity.IsPositive() {
			return fmt.Errorf("%w: %s row %d: non-positive quantity %s", ErrInvalidDelta, side, i, row.Quantity)
		}
		if row.OrderID == "" {
			l.setLevelVolume(price, row.Quantity)
			continue
		}
		order, err := NewBookOrder(row.OrderID, side, price, row.Quantity)
		if err != nil {
			return fmt.Errorf("%w: %s row %d: %v", ErrInvalidDelta, side, i, err)
		}
		if err := l.addOrder(order, price); err != nil {
			return fmt.Errorf("%w: %s row %d: %v", ErrInvalidDelta, side, i, err)
		}
	}
	return nil
}

// ApplyDelta applies one incremental change. The delta is validated
// fully before any mutation; on error the book is unchanged. A non-nil
// CrossedBookWarning reports that the applied feed state crosses the
// top of book. The book never auto-corrects a crossing.
func (b *OrderBook) ApplyDelta(delta BookDelta) (*CrossedBookWarning, error) {
	switch b.state {
	case StateDisposed:
		return nil, ErrBookDisposed
	case StateUninitialized:
		return nil, ErrNotInitialized
	}

	price, err := b.validateDelta(&delta)
	if err != nil {
		otel.IncInvalidDeltas(b.instrumentID)
		return nil, err
	}

	switch delta.Action {
	case ActionAdd:
		if delta.IsDepthOnly() {
			b.side(delta.Side).setLevelVolume(price, delta.Quantity)
		} else {
			order, oerr := NewBookOrder(delta.OrderID, delta.Side, price, delta.Quantity)
			if oerr != nil {
				otel.IncInvalidDeltas(b.instrumentID)
				return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, oerr)
			}
			if aerr := b.side(delta.Side).addOrder(order, price); aerr != nil {
				otel.IncInvalidDeltas(b.instrumentID)
				return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, aerr)
			}
		}
	case ActionUpdate:
		if delta.IsDepthOnly() {
			b.side(delta.Side).setLevelVolume(price, delta.Quantity)
		} else if delta.Quantity.IsZero() {
			b.side(delta.Side).deleteOrder(delta.OrderID)
		} else if uerr := b.side(delta.Side).updateOrder(delta.OrderID, price, delta.Quantity); uerr != nil {
			otel.IncInvalidDeltas(b.instrumentID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, uerr)
		}
	case ActionDelete:
		if delta.IsDepthOnly() {
			b.side(delta.Side).deleteLevel(price)
		} else {
			b.side(delta.Side).deleteOrder(delta.OrderID)
		}
	case ActionClear:
		switch delta.Side {
		case Buy:
			b.bids.clear()
		case Sell:
			b.asks.clear()
		default:
			b.bids.clear()
			b.asks.clear()
		}
	}

	if delta.Sequence != 0 {
		b.sequence = delta.Sequence
	}
	if delta.TsEvent != 0 {
		b.tsLast = delta.TsEvent
	}
	b.updateCount++
	otel.IncDeltasApplied(b.instrumentID, delta.Action.String())
	return b.checkCrossed(), nil
}

// validateDelta checks a delta before any mutation and returns the price
// rescaled to the ladder precision.
func (b *OrderBook) validateDelta(delta *BookDelta) (Price, error) {
	if delta.Action == ActionClear {
		return Price{}, nil
	}
	if delta.Side != Buy && delta.Side != Sell {
		return Price{}, fmt.Errorf("%w: action %s requires a side", ErrInvalidDelta, delta.Action)
	}
	price, err := delta.Price.Rescale(b.precision)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %v", ErrInvalidDelta, err)
	}
	if delta.Action != ActionDelete {
		if err := b.validateGrid(price); err != nil {
			return Price{}, fmt.Errorf("%w: %v", ErrInvalidDelta, err)
		}
	}
	if delta.Action == ActionAdd && !delta.Quantity.IsPositive() {
		return Price{}, fmt.Errorf("%w: add with non-positive quantity %s", ErrInvalidDelta, delta.Quantity)
	}
	return price, nil
}

func (b *OrderBook) validateGrid(price Price) error {
	if b.scheme == nil {
		return nil
	}
	return b.scheme.Validate(price)
}

func (b *OrderBook) side(s Side) *ladder {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

// checkCrossed returns a warning when both tops exist and bid >= ask.
func (b *OrderBook) checkCrossed() *CrossedBookWarning {
	bid := b.bids.best()
	ask := b.asks.best()
	if bid == nil || ask == nil {
		return nil
	}
	if bid.Price().LessThan(ask.Price()) {
		return nil
	}
	warn := &CrossedBookWarning{
		InstrumentID: b.instrumentID,
		BestBid:      bid.Price(),
		BestAsk:      ask.Price(),
		Sequence:     b.sequence,
	}
	b.logger.Warn().
		Str("instrument_id", warn.InstrumentID).
		Str("best_bid", warn.BestBid.String()).
		Str("best_ask", warn.BestAsk.String()).
		Uint64("sequence", warn.Sequence).
		Msg("Crossed order book")
	otel.IncCrossedBooks(b.instrumentID)
	return warn
}

// IsCrossed reports whether the current best bid meets or exceeds the
// best ask.
func (b *OrderBook) IsCrossed() bool {
	bid := b.bids.best()
	ask := b.asks.best()
	return bid != nil && ask != nil && bid.Price().GreaterThanOrEqual(ask.Price())
}

// BestBidPrice returns the highest bid price, if any bid exists.
func (b *OrderBook) BestBidPrice() (Price, bool) {
	level := b.bids.best()
	if level == nil {
		return Price{}, false
	}
	return level.Price(), true
}

// BestAskPrice returns the lowest ask price, if any ask exists.
func (b *OrderBook) BestAskPrice() (Price, bool) {
	level := b.asks.best()
	if level == nil {
		return Price{}, false
	}
	return level.Price(), true
}

// BestBidQty returns the volume resting at the best bid.
func (b *OrderBook) BestBidQty() (Quantity, bool) {
	level := b.bids.best()
	if level == nil {
		return Quantity{}, false
	}
	return level.Volume(), true
}

// BestAskQty returns the volume resting at the best ask.
func (b *OrderBook) BestAskQty() (Quantity, bool) {
	level := b.asks.best()
	if level == nil {
		return Quantity{}, false
	}
	return level.Volume(), true
}

// Spread returns best ask minus best bid. Negative when crossed.
func (b *OrderBook) Spread() (Price, bool) {
	bid := b.bids.best()
	ask := b.asks.best()
	if bid == nil || ask == nil {
		return Price{}, false
	}
	return ask.Price().Sub(bid.Price()), true
}

// MidPrice returns the arithmetic midpoint of the top of book as a
// float, for reporting.
func (b *OrderBook) MidPrice() (float64, bool) {
	bid := b.bids.best()
	ask := b.asks.best()
	if bid == nil || ask == nil {
		return 0, false
	}
	return (bid.Price().Float64() + ask.Price().Float64()) / 2, true
}

// Depth returns up to n levels of one side, best first. n <= 0 returns
// all levels.
func (b *OrderBook) Depth(side Side, n int) []LevelView {
	levels := b.side(side).levels(n)
	out := make([]LevelView, 0, len(levels))
	for _, level := range levels {
		out = append(out, LevelView{
			Price:      level.Price(),
			Volume:     level.Volume(),
			OrderCount: level.Len(),
		})
	}
	return out
}

// Levels walks one side best-first, calling fn per level until it
// returns false. Used by persistence and publishers.
func (b *OrderBook) Levels(side Side, fn func(LevelView) bool) {
	it := b.side(side).tree.Iterator()
	for it.Next() {
		level := it.Value()
		view := LevelView{
			Price:      level.Price(),
			Volume:     level.Volume(),
			OrderCount: level.Len(),
		}
		if !fn(view) {
			return
		}
	}
}

// Orders returns the FIFO order queue at a price, or nil when the level
// does not exist.
func (b *OrderBook) Orders(side Side, price Price) []*BookOrder {
	scaled, err := price.Rescale(b.precision)
	if err != nil {
		return nil
	}
	level, ok := b.side(side).tree.Get(scaled.raw)
	if !ok {
		return nil
	}
	return level.Orders()
}

// PriceForVolume walks the ladder from the top and returns the price at
// which cumulative volume first covers qty. Asking a Buy side answers
// "at what price could qty be sold into the bids".
func (b *OrderBook) PriceForVolume(side Side, qty Quantity) (Price, error) {
	if !qty.IsPositive() {
		return Price{}, fmt.Errorf("%w: non-positive volume %s", ErrInvalidArgument, qty)
	}
	cumulative := Quantity{precision: qty.precision}
	var found Price
	ok := false
	it := b.side(side).tree.Iterator()
	for it.Next() {
		level := it.Value()
		cumulative = cumulative.Add(level.Volume())
		if cumulative.GreaterThanOrEqual(qty) {
			found = level.Price()
			ok = true
			break
		}
	}
	if !ok {
		return Price{}, fmt.Errorf("%w: %s side holds %s, need %s",
			ErrInsufficientLiquidity, side, cumulative, qty)
	}
	return found, nil
}

// BidCount returns the number of bid price levels.
func (b *OrderBook) BidCount() int { return b.bids.size() }

// AskCount returns the number of ask price levels.
func (b *OrderBook) AskCount() int { return b.asks.size() }
