package core

import (
	"fmt"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// ladder is one side of the book: price levels in a red-black tree keyed
// by raw price, best price first, plus an order-id index so deletes and
// updates never search the tree by price.
type ladder struct {
	side  Side
	tree  *rbt.Tree[int64, *PriceLevel]
	cache map[string]int64
}

func newLadder(side Side) *ladder {
	cmp := func(a, b int64) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	if side == Buy {
		// Bids iterate highest price first.
		asc := cmp
		cmp = func(a, b int64) int { return asc(b, a) }
	}
	return &ladder{
		side:  side,
		tree:  rbt.NewWith[int64, *PriceLevel](cmp),
		cache: make(map[string]int64),
	}
}

// addOrder inserts an order, creating its level if needed.
func (l *ladder) addOrder(order *BookOrder, price Price) error {
	if _, ok := l.cache[order.id]; ok {
		return fmt.Errorf("%w: duplicate order id %s", ErrInvalidArgument, order.id)
	}
	level, ok := l.tree.Get(price.raw)
	if !ok {
		level = NewPriceLevel(price)
		l.tree.Put(price.raw, level)
	}
	if err := level.Add(order); err != nil {
		if level.IsEmpty() {
			l.tree.Remove(price.raw)
		}
		return err
	}
	l.cache[order.id] = price.raw
	return nil
}

// updateOrder changes an order's quantity, or moves it to a new price.
// A price move is remove-then-add and the order loses time priority. An
// unknown id is treated as an insert, matching feeds that publish the
// first sighting of an order as an update.
func (l *ladder) updateOrder(orderID string, price Price, quantity Quantity) error {
	raw, ok := l.cache[orderID]
	if !ok {
		order, err := NewBookOrder(orderID, l.side, price, quantity)
		if err != nil {
			return err
		}
		return l.addOrder(order, price)
	}
	level, _ := l.tree.Get(raw)
	if raw == price.raw {
		return level.Update(orderID, quantity)
	}
	level.Remove(orderID)
	if level.IsEmpty() {
		l.tree.Remove(raw)
	}
	delete(l.cache, orderID)
	order, err := NewBookOrder(orderID, l.side, price, quantity)
	if err != nil {
		return err
	}
	return l.addOrder(order, price)
}

// deleteOrder removes an order by id. Unknown ids are a no-op so that
// replayed or duplicated deletes stay harmless.
func (l *ladder) deleteOrder(orderID string) {
	raw, ok := l.cache[orderID]
	if !ok {
		return
	}
	level, _ := l.tree.Get(raw)
	level.Remove(orderID)
	if level.IsEmpty() {
		l.tree.Remove(raw)
	}
	delete(l.cache, orderID)
}

// setLevelVolume sets the aggregate volume at a price for depth-only
// feeds. Zero volume removes the level.
func (l *ladder) setLevelVolume(price Price, quantity Quantity) {
	level, ok := l.tree.Get(price.raw)
	if !ok {
		if quantity.IsZero() {
			return
		}
		level = NewPriceLevel(price)
		l.tree.Put(price.raw, level)
	}
	level.SetVolume(l.side, quantity)
	if level.IsEmpty() {
		l.tree.Remove(price.raw)
	}
}

// deleteLevel removes the whole level at a price, if present.
func (l *ladder) deleteLevel(price Price) {
	l.tree.Remove(price.raw)
}

// clear drops every level and the order index.
func (l *ladder) clear() {
	l.tree.Clear()
	clear(l.cache)
}

// best returns the top level, or nil when the side is empty.
func (l *ladder) best() *PriceLevel {
	node := l.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value
}

// levels returns up to n levels from the top, best first. n <= 0 means
// all levels.
func (l *ladder) levels(n int) []*PriceLevel {
	if n <= 0 || n > l.tree.Size() {
		n = l.tree.Size()
	}
	out := make([]*PriceLevel, 0, n)
	it := l.tree.Iterator()
	for it.Next() && len(out) < n {
		out = append(out, it.Value())
	}
	return out
}

// size returns the number of price levels.
func (l *ladder) size() int { return l.tree.Size() }

// orderCount returns the number of resting orders.
func (l *ladder) orderCount() int { return len(l.cache) }
