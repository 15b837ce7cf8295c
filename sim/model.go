package sim

import (
	"time"

	"github.com/rustyeddy/backtester/market"
)

// OpenOrder is the caller-maintained view of an order still working: the
// immutable order plus remaining quantity and stop-trigger state.
type OpenOrder struct {
	Order     market.Order
	Remaining float64
	Triggered bool // stop fired on an earlier bar
}

// Trigger reports a stop order firing. The caller records it so the order
// trades as a market order on later bars. Price is the stop level, not the
// eventual execution price.
type Trigger struct {
	OrderID string
	Price   float64
	Ts      time.Time
}

// Model computes eligible fills for one bar. It is a pure function of its
// inputs; the only state carried across bars (remaining qty, triggered
// stops) lives with the caller.
type Model struct {
	cfg Config
}

// NewModel validates cfg and returns a Model. An invalid config is fatal.
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Model{cfg: cfg}, nil
}

func (m *Model) Config() Config { return m.cfg }

// FillsForBar evaluates every open order against one bar. Orders are
// evaluated independently of one another and fills come out in input order,
// so identical inputs always produce the identical fill sequence.
func (m *Model) FillsForBar(bar market.Bar, open []OpenOrder) ([]market.Fill, []Trigger) {
	var fills []market.Fill
	var triggers []Trigger

	for _, oo := range open {
		if oo.Remaining <= 0 {
			continue
		}
		fill, trig, ok := m.evalOrder(bar, oo)
		if trig != nil {
			triggers = append(triggers, *trig)
		}
		if ok {
			fills = append(fills, fill)
		}
	}
	return fills, triggers
}

func (m *Model) evalOrder(bar market.Bar, oo OpenOrder) (market.Fill, *Trigger, bool) {
	o := oo.Order
	c := m.cfg

	var px float64
	var trig *Trigger

	switch {
	case o.Type == market.Market,
		o.Type == market.StopMarket && oo.Triggered:
		px = c.marketPrice(o.Side, bar)

	case o.Type == market.Limit:
		if !limitTouched(o.Side, o.LimitPrice, bar, c.TouchMode) {
			return market.Fill{}, nil, false
		}
		px = clampLimit(o.Side, c.marketPrice(o.Side, bar), o.LimitPrice)

	case o.Type == market.StopMarket:
		if !stopTriggered(o.Side, o.StopPrice, bar, c.TouchMode) {
			return market.Fill{}, nil, false
		}
		trig = &Trigger{OrderID: o.ID, Price: o.StopPrice, Ts: bar.Ts}
		if !c.AllowPartialOnTriggerBar {
			return market.Fill{}, trig, false
		}
		px = c.marketPrice(o.Side, bar)

	default:
		return market.Fill{}, nil, false
	}

	qty := c.budget(oo.Remaining, bar.Volume)
	if qty <= 0 {
		return market.Fill{}, trig, false
	}

	fee := c.FeeFixed + qty*px*c.FeeRate

	return market.Fill{
		OrderID: o.ID,
		Symbol:  o.Symbol,
		Side:    o.Side,
		Qty:     qty,
		Price:   px,
		Fee:     fee,
		Ts:      bar.Ts,
		BarTs:   bar.Ts,
	}, trig, true
}
