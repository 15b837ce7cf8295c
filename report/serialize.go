package report

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rustyeddy/backtester/account"
	"github.com/rustyeddy/backtester/market"
)

// Wire structs are declared with fields in lexicographic order. encoding/json
// emits struct fields in declaration order and sorts map keys, so the encoded
// document has stable, lexicographically sorted keys throughout.

type fillJSON struct {
	Fee     float64 `json:"fee"`
	OrderID string  `json:"order_id"`
	Price   float64 `json:"price"`
	Qty     float64 `json:"qty"`
	Side    string  `json:"side"`
	Symbol  string  `json:"symbol"`
}

type stateJSON struct {
	AvgCost      map[string]float64 `json:"avg_cost"`
	Cash         float64            `json:"cash"`
	PositionsQty map[string]float64 `json:"positions_qty"`
	RealizedPnL  float64            `json:"realized_pnl"`
}

type reportJSON struct {
	Equity        []float64          `json:"equity"`
	Fills         []fillJSON         `json:"fills"`
	Metrics       map[string]float64 `json:"metrics"`
	SchemaVersion int                `json:"schema_version"`
	State         stateJSON          `json:"state"`
}

// Encode serializes a report deterministically: sorted keys, UTF-8, Go's
// shortest-roundtrip float formatting. Identical reports encode to identical
// bytes on any machine. NaN and Inf are rejected before any byte is produced.
func Encode(r Report) ([]byte, error) {
	if err := checkFinite(r); err != nil {
		return nil, err
	}

	w := reportJSON{
		Equity:        r.Equity,
		Fills:         make([]fillJSON, 0, len(r.Fills)),
		Metrics:       r.Metrics,
		SchemaVersion: r.SchemaVersion,
		State: stateJSON{
			AvgCost:      r.State.AvgCost,
			Cash:         r.State.Cash,
			PositionsQty: r.State.Positions,
			RealizedPnL:  r.State.RealizedPnL,
		},
	}
	if w.Equity == nil {
		w.Equity = []float64{}
	}
	if w.Metrics == nil {
		w.Metrics = map[string]float64{}
	}
	if w.State.AvgCost == nil {
		w.State.AvgCost = map[string]float64{}
	}
	if w.State.PositionsQty == nil {
		w.State.PositionsQty = map[string]float64{}
	}
	for _, f := range r.Fills {
		w.Fills = append(w.Fills, fillJSON{
			Fee:     f.Fee,
			OrderID: f.OrderID,
			Price:   f.Price,
			Qty:     f.Qty,
			Side:    f.Side.String(),
			Symbol:  f.Symbol,
		})
	}

	return json.Marshal(w)
}

// Decode reconstructs a Report from encoded bytes. The result is a data
// transfer object only: it does not resurrect live engine or accounting
// state.
func Decode(data []byte) (Report, error) {
	var w reportJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return Report{}, fmt.Errorf("report: decode: %w", err)
	}
	if w.SchemaVersion != SchemaVersion {
		return Report{}, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, w.SchemaVersion, SchemaVersion)
	}

	r := Report{
		SchemaVersion: w.SchemaVersion,
		Equity:        w.Equity,
		Metrics:       w.Metrics,
		State: account.State{
			Cash:        w.State.Cash,
			Positions:   w.State.PositionsQty,
			AvgCost:     w.State.AvgCost,
			RealizedPnL: w.State.RealizedPnL,
		},
	}
	for _, f := range w.Fills {
		side, err := market.ParseSide(f.Side)
		if err != nil {
			return Report{}, fmt.Errorf("report: decode fill %q: %w", f.OrderID, err)
		}
		r.Fills = append(r.Fills, market.Fill{
			OrderID: f.OrderID,
			Symbol:  f.Symbol,
			Side:    side,
			Qty:     f.Qty,
			Price:   f.Price,
			Fee:     f.Fee,
		})
	}
	return r, nil
}

func checkFinite(r Report) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

	for i, f := range r.Fills {
		if bad(f.Qty) || bad(f.Price) || bad(f.Fee) {
			return fmt.Errorf("%w: fill %d (order %q)", ErrNotSerializable, i, f.OrderID)
		}
	}
	if bad(r.State.Cash) || bad(r.State.RealizedPnL) {
		return fmt.Errorf("%w: account state", ErrNotSerializable)
	}
	for sym, v := range r.State.Positions {
		if bad(v) {
			return fmt.Errorf("%w: positions_qty[%s]", ErrNotSerializable, sym)
		}
	}
	for sym, v := range r.State.AvgCost {
		if bad(v) {
			return fmt.Errorf("%w: avg_cost[%s]", ErrNotSerializable, sym)
		}
	}
	for i, v := range r.Equity {
		if bad(v) {
			return fmt.Errorf("%w: equity[%d]", ErrNotSerializable, i)
		}
	}
	for name, v := range r.Metrics {
		if bad(v) {
			return fmt.Errorf("%w: metrics[%s]", ErrNotSerializable, name)
		}
	}
	return nil
}
