package messaging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erain9/tickbook/pkg/core"
)

func liveBook(t *testing.T) *core.OrderBook {
	t.Helper()
	book, err := core.NewOrderBook("BTC/USDT", 2)
	require.NoError(t, err)
	_, err = book.ApplySnapshot(&core.BookSnapshot{
		InstrumentID: "BTC/USDT",
		Bids: []core.SnapshotLevel{
			{Price: core.MustPrice("100.00"), Quantity: core.MustQuantity("5"), OrderID: "b1"},
		},
		Asks: []core.SnapshotLevel{
			{Price: core.MustPrice("100.50"), Quantity: core.MustQuantity("4"), OrderID: "a1"},
		},
		Sequence: 1,
	})
	require.NoError(t, err)
	return book
}

func TestPublisherEmitsTopOnChange(t *testing.T) {
	sender := NewMockEventSender()
	pub := NewPublisher(sender, zerolog.Nop())
	book := liveBook(t)

	require.NoError(t, pub.Observe(book, nil))
	tops := sender.BookTops()
	require.Len(t, tops, 1)
	assert.Equal(t, "100.00", tops[0].BestBid)
	assert.Equal(t, "100.50", tops[0].BestAsk)
	assert.NotEmpty(t, tops[0].EventID)

	// No top change: no new message.
	require.NoError(t, pub.Observe(book, nil))
	assert.Len(t, sender.BookTops(), 1)

	// A delta that moves the best bid produces a second message.
	_, err := book.ApplyDelta(core.BookDelta{
		Action:   core.ActionAdd,
		Side:     core.Buy,
		Price:    core.MustPrice("100.25"),
		Quantity: core.MustQuantity("2"),
		OrderID:  "b2",
		Sequence: 2,
	})
	require.NoError(t, err)
	require.NoError(t, pub.Observe(book, nil))

	tops = sender.BookTops()
	require.Len(t, tops, 2)
	assert.Equal(t, "100.25", tops[1].BestBid)
	assert.NotEqual(t, tops[0].EventID, tops[1].EventID)
}

func TestPublisherEmitsCrossedBook(t *testing.T) {
	sender := NewMockEventSender()
	pub := NewPublisher(sender, zerolog.Nop())
	book := liveBook(t)

	warn, err := book.ApplyDelta(core.BookDelta{
		Action:   core.ActionAdd,
		Side:     core.Buy,
		Price:    core.MustPrice("100.50"),
		Quantity: core.MustQuantity("1"),
		OrderID:  "crosser",
		Sequence: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, warn)

	require.NoError(t, pub.Observe(book, warn))
	crossed := sender.CrossedBooks()
	require.Len(t, crossed, 1)
	assert.Equal(t, "BTC/USDT", crossed[0].InstrumentID)
	assert.Equal(t, "100.50", crossed[0].BestBid)
	assert.Equal(t, "100.50", crossed[0].BestAsk)
	assert.Equal(t, uint64(2), crossed[0].Sequence)
}
