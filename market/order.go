package market

import (
	"fmt"
	"strings"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type OrderKind string

const (
	Market     OrderKind = "MARKET"
	Limit      OrderKind = "LIMIT"
	Stop       OrderKind = "SL"
	StopMarket OrderKind = "SL-M"
)

// InstrumentClass distinguishes cash equity from derivatives, which carry
// their own quantity and position caps.
type InstrumentClass string

const (
	Equity     InstrumentClass = "EQUITY"
	Future     InstrumentClass = "FUT"
	CallOption InstrumentClass = "CE"
	PutOption  InstrumentClass = "PE"
)

// Derivative reports whether the class is anything other than cash equity.
func (c InstrumentClass) Derivative() bool {
	return c != Equity
}

// classSuffixes are the symbol fragments a derivatives contract must carry
// (e.g. NIFTY24AUGFUT, BANKNIFTY24AUG48000CE).
var classSuffixes = []string{"FUT", "CE", "PE"}

// Order is a proposed order as handed to the admission gate. It is built
// once by the caller and never mutated by the gate.
type Order struct {
	Symbol   string
	Exchange string
	Side     Side
	Quantity int64
	Kind     OrderKind
	// Price is the limit price for LIMIT/SL orders. Zero for MARKET orders;
	// the gate substitutes a conservative estimate when valuing those.
	Price    float64
	Class    InstrumentClass
	Strategy string
}

// NewOrder builds a validated Order. Shape problems are caught here rather
// than deep inside the admission chain.
func NewOrder(symbol, exchange string, side Side, qty int64, kind OrderKind, price float64, class InstrumentClass) (Order, error) {
	o := Order{
		Symbol:   symbol,
		Exchange: exchange,
		Side:     side,
		Quantity: qty,
		Kind:     kind,
		Price:    price,
		Class:    class,
	}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Validate checks order shape: positive quantity, non-negative price, and a
// price present wherever the order kind requires one.
func (o Order) Validate() error {
	if o.Symbol == "" {
		return fmt.Errorf("order symbol is required")
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("order quantity must be positive, got %d", o.Quantity)
	}
	if o.Price < 0 {
		return fmt.Errorf("order price must not be negative, got %f", o.Price)
	}
	if o.Kind == Limit && o.Price == 0 {
		return fmt.Errorf("limit order requires a price")
	}
	switch o.Side {
	case Buy, Sell:
	default:
		return fmt.Errorf("unknown order side %q", o.Side)
	}
	return nil
}

// EffectivePrice returns the price used for order valuation. MARKET orders
// carry no price, so marketEstimate stands in as a conservative stand-in.
func (o Order) EffectivePrice(marketEstimate float64) float64 {
	if o.Price > 0 {
		return o.Price
	}
	return marketEstimate
}

// Value is quantity times effective price, in account currency.
func (o Order) Value(marketEstimate float64) float64 {
	return float64(o.Quantity) * o.EffectivePrice(marketEstimate)
}

// HasClassSuffix reports whether the symbol encodes a recognized
// derivatives contract suffix.
func (o Order) HasClassSuffix() bool {
	for _, s := range classSuffixes {
		if strings.Contains(o.Symbol, s) {
			return true
		}
	}
	return false
}
