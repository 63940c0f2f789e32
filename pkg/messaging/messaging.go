package messaging

// EventSender defines an interface for publishing book events.
// This helps decouple the core package from specific implementations
// like Kafka in the kafka package.
type EventSender interface {
	SendBookTop(msg *BookTopMessage) error
	SendCrossedBook(msg *CrossedBookMessage) error
}

// BookTopMessage carries a top-of-book change. Prices and quantities are
// decimal strings; empty means the side is empty.
type BookTopMessage struct {
	EventID      string `json:"event_id"`
	InstrumentID string `json:"instrument_id"`
	BestBid      string `json:"best_bid"`
	BestBidQty   string `json:"best_bid_qty"`
	BestAsk      string `json:"best_ask"`
	BestAskQty   string `json:"best_ask_qty"`
	Sequence     uint64 `json:"sequence"`
	TsEvent      int64  `json:"ts_event"`
}

// CrossedBookMessage reports a crossed top of book observed on a feed.
type CrossedBookMessage struct {
	EventID      string `json:"event_id"`
	InstrumentID string `json:"instrument_id"`
	BestBid      string `json:"best_bid"`
	BestAsk      string `json:"best_ask"`
	Sequence     uint64 `json:"sequence"`
}
