package market

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder marks a malformed order. Rejection is always per-order;
// a bad order never aborts the bar that carried it.
var ErrInvalidOrder = errors.New("invalid order")

// Side: +1 buy, -1 sell
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return fmt.Sprintf("Side(%d)", int8(s))
}

// ParseSide maps the wire form ("BUY"/"SELL") back to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return 0, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, s)
}

type OrderType int8

const (
	Market OrderType = iota
	Limit
	StopMarket
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Limit:
		return "LIMIT"
	case StopMarket:
		return "STOP_MARKET"
	}
	return fmt.Sprintf("OrderType(%d)", int8(t))
}

// ParseOrderType maps the wire form back to an OrderType.
func ParseOrderType(s string) (OrderType, error) {
	switch s {
	case "MARKET":
		return Market, nil
	case "LIMIT":
		return Limit, nil
	case "STOP_MARKET":
		return StopMarket, nil
	}
	return 0, fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, s)
}

// Order is a caller-owned request executed against bars. The engine never
// mutates an Order; remaining quantity lives with the adapter between bars.
type Order struct {
	ID         string
	Symbol     string
	Side       Side
	Type       OrderType
	Qty        float64
	LimitPrice float64 // required for Limit
	StopPrice  float64 // required for StopMarket
}

// Validate rejects orders the engine must never execute.
func (o Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("%w: missing order id", ErrInvalidOrder)
	}
	if o.Side != Buy && o.Side != Sell {
		return fmt.Errorf("%w: order %q: bad side %d", ErrInvalidOrder, o.ID, o.Side)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("%w: order %q: qty %v must be positive", ErrInvalidOrder, o.ID, o.Qty)
	}
	switch o.Type {
	case Market:
	case Limit:
		if o.LimitPrice <= 0 {
			return fmt.Errorf("%w: order %q: limit order needs a positive limit price", ErrInvalidOrder, o.ID)
		}
	case StopMarket:
		if o.StopPrice <= 0 {
			return fmt.Errorf("%w: order %q: stop order needs a positive stop price", ErrInvalidOrder, o.ID)
		}
	default:
		return fmt.Errorf("%w: order %q: bad order type %d", ErrInvalidOrder, o.ID, o.Type)
	}
	return nil
}
