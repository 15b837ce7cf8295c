package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
)

// Adapter bridges caller-owned orders to the execution model. It keeps the
// only state the model is allowed to see across bars — remaining quantity
// and stop-trigger flags — in activation order, so fill emission is stable
// for identical inputs.
type Adapter struct {
	model    *sim.Model
	open     []*workingOrder
	byID     map[string]*workingOrder
	rejected []RejectedOrder
	lastTs   time.Time
}

type workingOrder struct {
	order     market.Order
	remaining float64
	filled    float64
	triggered bool
}

// RejectedOrder pairs a malformed order with the reason it was refused.
type RejectedOrder struct {
	Order market.Order
	Err   error
}

func NewAdapter(model *sim.Model) *Adapter {
	return &Adapter{
		model: model,
		byID:  make(map[string]*workingOrder),
	}
}

// Activate validates and admits new orders. A malformed order is recorded
// as rejected and skipped; the rest of the batch is unaffected.
func (a *Adapter) Activate(orders []market.Order) {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			a.rejected = append(a.rejected, RejectedOrder{Order: o, Err: err})
			continue
		}
		if _, dup := a.byID[o.ID]; dup {
			a.rejected = append(a.rejected, RejectedOrder{
				Order: o,
				Err:   fmt.Errorf("%w: duplicate order id %q", market.ErrInvalidOrder, o.ID),
			})
			continue
		}
		w := &workingOrder{order: o, remaining: o.Qty}
		a.open = append(a.open, w)
		a.byID[o.ID] = w
	}
}

// Step runs one bar: builds the model's view of open orders in activation
// order, books the resulting fills and triggers, and returns the fills in
// that same order. Bars must arrive in time order.
func (a *Adapter) Step(bar market.Bar) ([]market.Fill, error) {
	if !a.lastTs.IsZero() && bar.Ts.Before(a.lastTs) {
		return nil, fmt.Errorf("backtest: bar at %s arrived after %s", bar.Ts, a.lastTs)
	}
	a.lastTs = bar.Ts

	view := make([]sim.OpenOrder, 0, len(a.open))
	for _, w := range a.open {
		if w.remaining <= 0 {
			continue
		}
		view = append(view, sim.OpenOrder{
			Order:     w.order,
			Remaining: w.remaining,
			Triggered: w.triggered,
		})
	}

	fills, triggers := a.model.FillsForBar(bar, view)

	for _, tr := range triggers {
		if w := a.byID[tr.OrderID]; w != nil {
			w.triggered = true
		}
	}
	for _, f := range fills {
		w, ok := a.byID[f.OrderID]
		if !ok {
			return nil, fmt.Errorf("backtest: fill for unknown order %q", f.OrderID)
		}
		if f.Qty <= 0 || f.Qty > w.remaining {
			return nil, fmt.Errorf("backtest: fill qty %v outside (0, %v] for order %q", f.Qty, w.remaining, f.OrderID)
		}
		w.remaining -= f.Qty
		w.filled += f.Qty
	}
	return fills, nil
}

// Rejected returns the orders refused so far, in arrival order.
func (a *Adapter) Rejected() []RejectedOrder { return a.rejected }

// Remaining returns the unfilled quantity for an order, or 0 if unknown.
func (a *Adapter) Remaining(orderID string) float64 {
	if w, ok := a.byID[orderID]; ok {
		return w.remaining
	}
	return 0
}

// Filled returns the total filled quantity for an order, or 0 if unknown.
func (a *Adapter) Filled(orderID string) float64 {
	if w, ok := a.byID[orderID]; ok {
		return w.filled
	}
	return 0
}
