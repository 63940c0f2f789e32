// Package feed turns venue market-data payloads into book snapshots and
// deltas, enforcing sequence continuity per instrument.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/erain9/tickbook/pkg/core"
)

// Errors
var (
	ErrBadPayload        = errors.New("malformed feed payload")
	ErrUnknownInstrument = errors.New("payload for a different instrument")
	ErrSequenceGap       = errors.New("sequence gap detected")
	ErrStaleSequence     = errors.New("stale sequence, message dropped")
)

// wire message types
const (
	typeSnapshot = "snapshot"
	typeDelta    = "delta"
)

// wireLevel is one level row on the wire. Size and price are decimal
// strings; an empty order id marks a depth-only row.
type wireLevel struct {
	Price   string `json:"price"`
	Size    string `json:"size"`
	OrderID string `json:"order_id,omitempty"`
}

// wireMessage is the venue envelope for both snapshots and deltas.
type wireMessage struct {
	Type         string      `json:"type"`
	InstrumentID string      `json:"instrument_id"`
	Sequence     uint64      `json:"sequence"`
	TsEvent      int64       `json:"ts_event"`
	Bids         []wireLevel `json:"bids,omitempty"`
	Asks         []wireLevel `json:"asks,omitempty"`
	Action       string      `json:"action,omitempty"`
	Side         string      `json:"side,omitempty"`
	Price        string      `json:"price,omitempty"`
	Size         string      `json:"size,omitempty"`
	OrderID      string      `json:"order_id,omitempty"`
}

// Message is one decoded feed message. Exactly one field is set.
type Message struct {
	Snapshot *core.BookSnapshot
	Delta    *core.BookDelta
}

// SnapshotRequestFunc is invoked when the decoder loses sequence
// continuity and needs a fresh snapshot.
type SnapshotRequestFunc func(instrumentID string, lastSequence, gotSequence uint64)

// Decoder parses one instrument's feed. It is not safe for concurrent
// use; run one decoder per feed goroutine.
type Decoder struct {
	instrumentID  string
	pricePrec     uint8
	sizePrec      uint8
	lastSequence  uint64
	synced        bool
	onGap         SnapshotRequestFunc
	logger        zerolog.Logger
	droppedStale  uint64
	requestedSnap uint64
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithSnapshotRequest sets the callback fired on sequence gaps.
func WithSnapshotRequest(fn SnapshotRequestFunc) DecoderOption {
	return func(d *Decoder) { d.onGap = fn }
}

// WithDecoderLogger sets the decoder's logger.
func WithDecoderLogger(logger zerolog.Logger) DecoderOption {
	return func(d *Decoder) { d.logger = logger }
}

// NewDecoder creates a decoder for one instrument at the venue's price
// and size precisions.
func NewDecoder(instrumentID string, pricePrecision, sizePrecision uint8, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		instrumentID: instrumentID,
		pricePrec:    pricePrecision,
		sizePrec:     sizePrecision,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InstrumentID returns the instrument this decoder accepts.
func (d *Decoder) InstrumentID() string { return d.instrumentID }

// LastSequence returns the sequence of the last accepted message.
func (d *Decoder) LastSequence() uint64 { return d.lastSequence }

// Synced reports whether a snapshot has been seen and no gap is open.
func (d *Decoder) Synced() bool { return d.synced }

// Decode parses one payload. Deltas that arrive out of order are
// dropped: older-than-current returns ErrStaleSequence, ahead-of-current
// fires the snapshot request callback and returns ErrSequenceGap.
func (d *Decoder) Decode(payload []byte) (*Message, error) {
	var msg wireMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if msg.InstrumentID != d.instrumentID {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrUnknownInstrument, msg.InstrumentID, d.instrumentID)
	}

	switch msg.Type {
	case typeSnapshot:
		return d.decodeSnapshot(&msg)
	case typeDelta:
		return d.decodeDelta(&msg)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrBadPayload, msg.Type)
	}
}

func (d *Decoder) decodeSnapshot(msg *wireMessage) (*Message, error) {
	bids, err := d.parseLevels(msg.Bids)
	if err != nil {
		return nil, err
	}
	asks, err := d.parseLevels(msg.Asks)
	if err != nil {
		return nil, err
	}

	d.lastSequence = msg.Sequence
	d.synced = true
	return &Message{Snapshot: &core.BookSnapshot{
		InstrumentID: msg.InstrumentID,
		Bids:         bids,
		Asks:         asks,
		Sequence:     msg.Sequence,
		TsEvent:      msg.TsEvent,
	}}, nil
}

func (d *Decoder) decodeDelta(msg *wireMessage) (*Message, error) {
	if !d.synced {
		d.requestSnapshot(msg.Sequence)
		return nil, fmt.Errorf("%w: delta %d before first snapshot", ErrSequenceGap, msg.Sequence)
	}
	if msg.Sequence <= d.lastSequence {
		d.droppedStale++
		return nil, fmt.Errorf("%w: sequence %d at or behind %d", ErrStaleSequence, msg.Sequence, d.lastSequence)
	}
	if msg.Sequence != d.lastSequence+1 {
		d.synced = false
		d.requestSnapshot(msg.Sequence)
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrSequenceGap, d.lastSequence+1, msg.Sequence)
	}

	action, err := core.ActionFromString(msg.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	side, err := core.SideFromString(msg.Side)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	delta := &core.BookDelta{
		Action:   action,
		Side:     side,
		OrderID:  msg.OrderID,
		Sequence: msg.Sequence,
		TsEvent:  msg.TsEvent,
	}
	if action != core.ActionClear {
		price, perr := core.ParsePrice(msg.Price, d.pricePrec)
		if perr != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, perr)
		}
		delta.Price = price
		if msg.Size != "" {
			size, serr := core.ParseQuantity(msg.Size, d.sizePrec)
			if serr != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadPayload, serr)
			}
			delta.Quantity = size
		}
	}

	d.lastSequence = msg.Sequence
	return &Message{Delta: delta}, nil
}

func (d *Decoder) parseLevels(rows []wireLevel) ([]core.SnapshotLevel, error) {
	out := make([]core.SnapshotLevel, 0, len(rows))
	for i, row := range rows {
		price, err := core.ParsePrice(row.Price, d.pricePrec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadPayload, i, err)
		}
		size, err := core.ParseQuantity(row.Size, d.sizePrec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadPayload, i, err)
		}
		out = append(out, core.SnapshotLevel{
			Price:    price,
			Quantity: size,
			OrderID:  row.OrderID,
		})
	}
	return out, nil
}

func (d *Decoder) requestSnapshot(gotSequence uint64) {
	d.requestedSnap++
	d.logger.Warn().
		Str("instrument_id", d.instrumentID).
		Uint64("last_sequence", d.lastSequence).
		Uint64("got_sequence", gotSequence).
		Msg("Sequence gap, requesting snapshot")
	if d.onGap != nil {
		d.onGap(d.instrumentID, d.lastSequence, gotSequence)
	}
}
