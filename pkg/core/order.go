package core

import "encoding/json"

// BookOrder is a single resting order inside a price level. Orders on the
// same level keep FIFO time priority; the sequence number records arrival
// order and is assigned by the level on insert.
type BookOrder struct {
	id       string
	side     Side
	price    Price
	quantity Quantity
	sequence uint64
}

// NewBookOrder creates an order for the given side, price and quantity.
func NewBookOrder(id string, side Side, price Price, quantity Quantity) (*BookOrder, error) {
	if id == "" {
		return nil, ErrInvalidArgument
	}
	if side != Buy && side != Sell {
		return nil, ErrInvalidArgument
	}
	return &BookOrder{
		id:       id,
		side:     side,
		price:    price,
		quantity: quantity,
	}, nil
}

// ID returns the order id.
func (o *BookOrder) ID() string { return o.id }

// Side returns the order side.
func (o *BookOrder) Side() Side { return o.side }

// Price returns the order price.
func (o *BookOrder) Price() Price { return o.price }

// Quantity returns the current order quantity.
func (o *BookOrder) Quantity() Quantity { return o.quantity }

// Sequence returns the level-assigned arrival sequence.
func (o *BookOrder) Sequence() uint64 { return o.sequence }

// SetQuantity replaces the order quantity in place, keeping queue position.
func (o *BookOrder) SetQuantity(quantity Quantity) {
	o.quantity = quantity
}

// Exposure returns price * quantity as a float. Reporting only; the
// matching-relevant state stays on raw integers.
func (o *BookOrder) Exposure() float64 {
	return o.price.Float64() * o.quantity.Float64()
}

// MarshalJSON implements json.Marshaler.
func (o *BookOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ID       string `json:"id"`
		Side     string `json:"side"`
		Price    string `json:"price"`
		Quantity string `json:"quantity"`
		Sequence uint64 `json:"sequence"`
	}{
		ID:       o.id,
		Side:     o.side.String(),
		Price:    o.price.String(),
		Quantity: o.quantity.String(),
		Sequence: o.sequence,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *BookOrder) UnmarshalJSON(data []byte) error {
	aux := struct {
		ID       string `json:"id"`
		Side     string `json:"side"`
		Price    string `json:"price"`
		Quantity string `json:"quantity"`
		Sequence uint64 `json:"sequence"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	side, err := SideFromString(aux.Side)
	if err != nil {
		return err
	}
	price, err := PriceFromString(aux.Price)
	if err != nil {
		return err
	}
	quantity, err := QuantityFromString(aux.Quantity)
	if err != nil {
		return err
	}
	o.id = aux.ID
	o.side = side
	o.price = price
	o.quantity = quantity
	o.sequence = aux.Sequence
	return nil
}
