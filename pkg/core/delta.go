package core

import "errors"

// BookAction is the kind of mutation a BookDelta carries.
type BookAction int8

const (
	ActionAdd BookAction = iota
	ActionUpdate
	ActionDelete
	ActionClear
)

// String implements fmt.Stringer.
func (a BookAction) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionUpdate:
		return "UPDATE"
	case ActionDelete:
		return "DELETE"
	case ActionClear:
		return "CLEAR"
	default:
		return "UNKNOWN"
	}
}

// ActionFromString parses a delta action name.
func ActionFromString(s string) (BookAction, error) {
	switch s {
	case "ADD", "add":
		return ActionAdd, nil
	case "UPDATE", "update":
		return ActionUpdate, nil
	case "DELETE", "delete":
		return ActionDelete, nil
	case "CLEAR", "clear":
		return ActionClear, nil
	default:
		return ActionAdd, errors.New("invalid book action: " + s)
	}
}

// BookDelta is one incremental change to an order book. An empty OrderID
// marks a depth-only (per-level aggregate) row; a non-empty OrderID marks
// an order-based row.
type BookDelta struct {
	Action   BookAction
	Side     Side
	Price    Price
	Quantity Quantity
	OrderID  string
	Sequence uint64
	TsEvent  int64
}

// IsDepthOnly reports whether the delta addresses a level aggregate
// rather than an individual order.
func (d BookDelta) IsDepthOnly() bool { return d.OrderID == "" }

// SnapshotLevel is one level row of a book snapshot.
type SnapshotLevel struct {
	Price    Price
	Quantity Quantity
	OrderID  string
}

// BookSnapshot is a full image of both sides of a book at a sequence
// point. Applying it replaces all prior state.
type BookSnapshot struct {
	InstrumentID string
	Bids         []SnapshotLevel
	Asks         []SnapshotLevel
	Sequence     uint64
	TsEvent      int64
}

// LevelView is a read-only projection of one price level.
type LevelView struct {
	Price      Price
	Volume     Quantity
	OrderCount int
}

// CrossedBookWarning reports a top-of-book crossing observed after an
// apply. It is advisory; the book state is left exactly as the feed
// dictated.
type CrossedBookWarning struct {
	InstrumentID string
	BestBid      Price
	BestAsk      Price
	Sequence     uint64
}
