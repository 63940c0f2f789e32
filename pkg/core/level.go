package core

import (
	"container/list"
	"fmt"
)

// syntheticOrderID marks the single aggregate order a depth-only feed
// maintains per level.
const syntheticOrderID = "_level"

// PriceLevel holds all orders resting at one price, in FIFO arrival
// order, with the aggregate volume cached so top-of-book queries never
// walk the queue.
type PriceLevel struct {
	price   Price
	orders  *list.List
	index   map[string]*list.Element
	volume  Quantity
	nextSeq uint64
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price Price) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: list.New(),
		index:  make(map[string]*list.Element),
		volume: Quantity{precision: price.precision},
	}
}

// Price returns the level price.
func (l *PriceLevel) Price() Price { return l.price }

// Volume returns the cached aggregate quantity.
func (l *PriceLevel) Volume() Quantity { return l.volume }

// Len returns the number of resting orders.
func (l *PriceLevel) Len() int { return l.orders.Len() }

// IsEmpty reports whether the level has no orders.
func (l *PriceLevel) IsEmpty() bool { return l.orders.Len() == 0 }

// Add appends an order to the back of the queue. The order price must
// equal the level price exactly.
func (l *PriceLevel) Add(order *BookOrder) error {
	if !order.price.Equal(l.price) {
		return fmt.Errorf("%w: order %s at %s, level at %s",
			ErrPriceMismatch, order.id, order.price, l.price)
	}
	if _, ok := l.index[order.id]; ok {
		return fmt.Errorf("%w: order %s already on level", ErrInvalidArgument, order.id)
	}
	order.sequence = l.nextSeq
	l.nextSeq++
	l.index[order.id] = l.orders.PushBack(order)
	l.volume = l.volume.Add(order.quantity)
	return nil
}

// Remove deletes an order by id. Removing an absent order is a no-op.
func (l *PriceLevel) Remove(orderID string) *BookOrder {
	elem, ok := l.index[orderID]
	if !ok {
		return nil
	}
	order := elem.Value.(*BookOrder)
	l.orders.Remove(elem)
	delete(l.index, orderID)
	l.volume = l.volume.Sub(order.quantity)
	return order
}

// Update replaces an order's quantity in place, preserving its queue
// position. The order must already rest on the level.
func (l *PriceLevel) Update(orderID string, quantity Quantity) error {
	elem, ok := l.index[orderID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	order := elem.Value.(*BookOrder)
	l.volume = l.volume.Sub(order.quantity).Add(quantity)
	order.SetQuantity(quantity)
	return nil
}

// Get returns the order with the given id, or nil.
func (l *PriceLevel) Get(orderID string) *BookOrder {
	elem, ok := l.index[orderID]
	if !ok {
		return nil
	}
	return elem.Value.(*BookOrder)
}

// Front returns the first order in time priority, or nil when empty.
func (l *PriceLevel) Front() *BookOrder {
	elem := l.orders.Front()
	if elem == nil {
		return nil
	}
	return elem.Value.(*BookOrder)
}

// Orders returns the resting orders in FIFO order. The slice is a copy;
// the orders are not.
func (l *PriceLevel) Orders() []*BookOrder {
	out := make([]*BookOrder, 0, l.orders.Len())
	for elem := l.orders.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(*BookOrder))
	}
	return out
}

// Exposure returns price * volume as a float, for reporting.
func (l *PriceLevel) Exposure() float64 {
	return l.price.Float64() * l.volume.Float64()
}

// SetVolume replaces the level's aggregate with a single synthetic
// order. Depth-only feeds publish per-level totals rather than
// individual orders; the synthetic order carries that total.
func (l *PriceLevel) SetVolume(side Side, quantity Quantity) {
	l.orders.Init()
	clear(l.index)
	l.volume = Quantity{precision: quantity.precision}
	if quantity.IsZero() {
		return
	}
	order := &BookOrder{
		id:       syntheticOrderID,
		side:     side,
		price:    l.price,
		quantity: quantity,
		sequence: l.nextSeq,
	}
	l.nextSeq++
	l.index[order.id] = l.orders.PushBack(order)
	l.volume = quantity
}
