package feed

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erain9/tickbook/pkg/core"
)

const testInstrument = "EUR/USD"

func snapshotPayload(seq uint64) []byte {
	return []byte(`{
		"type": "snapshot",
		"instrument_id": "EUR/USD",
		"sequence": ` + uintStr(seq) + `,
		"ts_event": 1700000000,
		"bids": [{"price": "1.085", "size": "100"}, {"price": "1.084", "size": "250"}],
		"asks": [{"price": "1.086", "size": "80"}]
	}`)
}

func deltaPayload(seq uint64, action, side, price, size, orderID string) []byte {
	return []byte(`{
		"type": "delta",
		"instrument_id": "EUR/USD",
		"sequence": ` + uintStr(seq) + `,
		"action": "` + action + `",
		"side": "` + side + `",
		"price": "` + price + `",
		"size": "` + size + `",
		"order_id": "` + orderID + `"
	}`)
}

func uintStr(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func TestDecodeSnapshot(t *testing.T) {
	d := NewDecoder(testInstrument, 3, 0)

	msg, err := d.Decode(snapshotPayload(5))
	require.NoError(t, err)
	require.NotNil(t, msg.Snapshot)
	assert.Nil(t, msg.Delta)

	snap := msg.Snapshot
	assert.Equal(t, testInstrument, snap.InstrumentID)
	assert.Equal(t, uint64(5), snap.Sequence)
	require.Len(t, snap.Bids, 2)
	assert.True(t, snap.Bids[0].Price.Equal(core.MustPrice("1.085")))
	assert.True(t, snap.Bids[0].Quantity.Equal(core.MustQuantity("100")))
	assert.True(t, d.Synced())
}

func TestDecodeDeltaInSequence(t *testing.T) {
	d := NewDecoder(testInstrument, 3, 0)
	_, err := d.Decode(snapshotPayload(5))
	require.NoError(t, err)

	msg, err := d.Decode(deltaPayload(6, "ADD", "BUY", "1.083", "40", "o1"))
	require.NoError(t, err)
	require.NotNil(t, msg.Delta)

	delta := msg.Delta
	assert.Equal(t, core.ActionAdd, delta.Action)
	assert.Equal(t, core.Buy, delta.Side)
	assert.True(t, delta.Price.Equal(core.MustPrice("1.083")))
	assert.Equal(t, "o1", delta.OrderID)
	assert.Equal(t, uint64(6), d.LastSequence())
}

func TestDecodeDeltaBeforeSnapshot(t *testing.T) {
	var gapInstrument string
	d := NewDecoder(testInstrument, 3, 0, WithSnapshotRequest(
		func(instrumentID string, lastSeq, gotSeq uint64) {
			gapInstrument = instrumentID
		}))

	_, err := d.Decode(deltaPayload(1, "ADD", "BUY", "1.083", "40", "o1"))
	assert.ErrorIs(t, err, ErrSequenceGap)
	assert.Equal(t, testInstrument, gapInstrument)
}

func TestDecodeSequenceGap(t *testing.T) {
	var gotLast, gotSeq uint64
	d := NewDecoder(testInstrument, 3, 0, WithSnapshotRequest(
		func(instrumentID string, lastSeq, gapSeq uint64) {
			gotLast, gotSeq = lastSeq, gapSeq
		}))
	_, err := d.Decode(snapshotPayload(5))
	require.NoError(t, err)

	// Sequence 7 skips 6: the delta must be dropped and a snapshot
	// requested.
	_, err = d.Decode(deltaPayload(7, "ADD", "BUY", "1.083", "40", "o1"))
	assert.ErrorIs(t, err, ErrSequenceGap)
	assert.Equal(t, uint64(5), gotLast)
	assert.Equal(t, uint64(7), gotSeq)
	assert.False(t, d.Synced())

	// A fresh snapshot resynchronizes the stream.
	_, err = d.Decode(snapshotPayload(9))
	require.NoError(t, err)
	assert.True(t, d.Synced())

	msg, err := d.Decode(deltaPayload(10, "DELETE", "ASK", "1.086", "", "a1"))
	require.NoError(t, err)
	assert.Equal(t, core.ActionDelete, msg.Delta.Action)
	assert.Equal(t, core.Sell, msg.Delta.Side)
}

func TestDecodeStaleSequence(t *testing.T) {
	d := NewDecoder(testInstrument, 3, 0)
	_, err := d.Decode(snapshotPayload(5))
	require.NoError(t, err)

	_, err = d.Decode(deltaPayload(5, "ADD", "BUY", "1.083", "40", "o1"))
	assert.ErrorIs(t, err, ErrStaleSequence)
	// Stale messages do not break sync.
	assert.True(t, d.Synced())
}

func TestDecodeWrongInstrument(t *testing.T) {
	d := NewDecoder("GBP/USD", 3, 0)
	_, err := d.Decode(snapshotPayload(1))
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestDecodeMalformed(t *testing.T) {
	d := NewDecoder(testInstrument, 3, 0)

	_, err := d.Decode([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrBadPayload)

	_, err = d.Decode([]byte(`{"type": "trade", "instrument_id": "EUR/USD"}`))
	assert.ErrorIs(t, err, ErrBadPayload)

	_, err = d.Decode(snapshotPayload(1))
	require.NoError(t, err)
	_, err = d.Decode(deltaPayload(2, "ADD", "BUY", "not-a-price", "40", "o1"))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecodeDepthOnlyDelta(t *testing.T) {
	d := NewDecoder(testInstrument, 3, 0)
	_, err := d.Decode(snapshotPayload(1))
	require.NoError(t, err)

	msg, err := d.Decode(deltaPayload(2, "UPDATE", "BID", "1.085", "70", ""))
	require.NoError(t, err)
	assert.True(t, msg.Delta.IsDepthOnly())
	assert.True(t, msg.Delta.Quantity.Equal(core.MustQuantity("70")))
}
