package messaging

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/erain9/tickbook/pkg/core"
)

// Publisher watches an order book and emits messages when the top of
// book changes or a crossing is observed. Call Observe after every
// successful apply, from the same goroutine that owns the book.
type Publisher struct {
	sender  EventSender
	logger  zerolog.Logger
	lastTop *BookTopMessage
}

// NewPublisher creates a publisher writing through sender.
func NewPublisher(sender EventSender, logger zerolog.Logger) *Publisher {
	return &Publisher{
		sender: sender,
		logger: logger,
	}
}

// Observe inspects the book after an apply and publishes any changes.
// warn is the crossed-book warning returned by the apply, or nil.
func (p *Publisher) Observe(book *core.OrderBook, warn *core.CrossedBookWarning) error {
	if warn != nil {
		msg := &CrossedBookMessage{
			EventID:      uuid.NewString(),
			InstrumentID: warn.InstrumentID,
			BestBid:      warn.BestBid.String(),
			BestAsk:      warn.BestAsk.String(),
			Sequence:     warn.Sequence,
		}
		if err := p.sender.SendCrossedBook(msg); err != nil {
			p.logger.Error().Err(err).
				Str("instrument_id", msg.InstrumentID).
				Msg("Failed to publish crossed-book event")
			return err
		}
	}

	top := snapshotTop(book)
	if p.lastTop != nil && sameTop(p.lastTop, top) {
		return nil
	}
	top.EventID = uuid.NewString()
	if err := p.sender.SendBookTop(top); err != nil {
		p.logger.Error().Err(err).
			Str("instrument_id", top.InstrumentID).
			Msg("Failed to publish book-top event")
		return err
	}
	p.lastTop = top
	return nil
}

func snapshotTop(book *core.OrderBook) *BookTopMessage {
	msg := &BookTopMessage{
		InstrumentID: book.InstrumentID(),
		Sequence:     book.Sequence(),
		TsEvent:      book.TsLast(),
	}
	if bid, ok := book.BestBidPrice(); ok {
		msg.BestBid = bid.String()
		qty, _ := book.BestBidQty()
		msg.BestBidQty = qty.String()
	}
	if ask, ok := book.BestAskPrice(); ok {
		msg.BestAsk = ask.String()
		qty, _ := book.BestAskQty()
		msg.BestAskQty = qty.String()
	}
	return msg
}

func sameTop(a, b *BookTopMessage) bool {
	return a.BestBid == b.BestBid &&
		a.BestBidQty == b.BestBidQty &&
		a.BestAsk == b.BestAsk &&
		a.BestAskQty == b.BestAskQty
}
