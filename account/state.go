package account

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/backtester/market"
)

// ErrShortSale marks a sell that would drive a position negative. Shorting
// is rejected outright: a fill like this means an upstream bug, and the run
// must abort rather than persist an inconsistent ledger.
var ErrShortSale = errors.New("short sale rejected")

// State is the cash/position ledger for one run: mutated exactly once per
// fill, in fill order, and never shared across runs.
type State struct {
	Cash        float64
	Positions   map[string]float64 // symbol -> qty
	AvgCost     map[string]float64 // symbol -> volume-weighted entry price
	RealizedPnL float64
}

func NewState(initialCash float64) *State {
	return &State{
		Cash:      initialCash,
		Positions: make(map[string]float64),
		AvgCost:   make(map[string]float64),
	}
}

// Apply books one fill. Fees and slippage are already embedded in the fill's
// price and fee by the execution model; they are not rederived here. The fee
// is charged against realized PnL exactly once, on the sell side.
func (s *State) Apply(f market.Fill) error {
	switch f.Side {
	case market.Buy:
		oldQty := s.Positions[f.Symbol]
		oldAvg := s.AvgCost[f.Symbol]
		newQty := oldQty + f.Qty

		s.Cash -= f.Qty*f.Price + f.Fee
		s.Positions[f.Symbol] = newQty
		s.AvgCost[f.Symbol] = (oldQty*oldAvg + f.Qty*f.Price) / newQty

	case market.Sell:
		oldQty := s.Positions[f.Symbol]
		if f.Qty > oldQty {
			return fmt.Errorf("%w: sell %v %s against position %v", ErrShortSale, f.Qty, f.Symbol, oldQty)
		}
		avg := s.AvgCost[f.Symbol]
		newQty := oldQty - f.Qty

		s.Cash += f.Qty*f.Price - f.Fee
		s.RealizedPnL += (f.Price-avg)*f.Qty - f.Fee
		s.Positions[f.Symbol] = newQty
		if newQty == 0 {
			s.AvgCost[f.Symbol] = 0
		}

	default:
		return fmt.Errorf("account: fill for order %q has bad side %d", f.OrderID, f.Side)
	}
	return nil
}

// TotalQty sums position quantity across symbols.
func (s *State) TotalQty() float64 {
	var q float64
	for _, v := range s.Positions {
		q += v
	}
	return q
}

// PositionValue marks all positions to one price.
func (s *State) PositionValue(mark float64) float64 {
	return s.TotalQty() * mark
}

// UnrealizedPnL is the mark-to-market gain over average cost across symbols.
func (s *State) UnrealizedPnL(mark float64) float64 {
	var pl float64
	for sym, qty := range s.Positions {
		pl += (mark - s.AvgCost[sym]) * qty
	}
	return pl
}

// Clone returns an independent copy, for snapshotting into a report.
func (s *State) Clone() *State {
	c := &State{
		Cash:        s.Cash,
		Positions:   make(map[string]float64, len(s.Positions)),
		AvgCost:     make(map[string]float64, len(s.AvgCost)),
		RealizedPnL: s.RealizedPnL,
	}
	for k, v := range s.Positions {
		c.Positions[k] = v
	}
	for k, v := range s.AvgCost {
		c.AvgCost[k] = v
	}
	return c
}
