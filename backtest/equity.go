package backtest

import (
	"time"

	"github.com/rustyeddy/backtester/account"
)

// EquityRow is one step of the equity curve. Equity == Cash + PositionValue
// holds for every row the builder produces.
type EquityRow struct {
	Ts            time.Time
	Cash          float64
	PositionQty   float64
	PositionValue float64
	RealizedPnL   float64
	UnrealizedPnL float64
	Fees          float64 // cumulative fees through this step
	Equity        float64
}

// NewEquityRow marks the account state to one price. Read-only on the state.
func NewEquityRow(ts time.Time, st *account.State, mark, cumFees float64) EquityRow {
	posValue := st.PositionValue(mark)
	return EquityRow{
		Ts:            ts,
		Cash:          st.Cash,
		PositionQty:   st.TotalQty(),
		PositionValue: posValue,
		RealizedPnL:   st.RealizedPnL,
		UnrealizedPnL: st.UnrealizedPnL(mark),
		Fees:          cumFees,
		Equity:        st.Cash + posValue,
	}
}

// CurvePoint is one (time, state-after-fills, mark) step for BuildCurve.
type CurvePoint struct {
	Ts      time.Time
	State   *account.State
	Mark    float64
	CumFees float64
}

// BuildCurve maps an ordered step sequence to equity rows.
func BuildCurve(points []CurvePoint) []EquityRow {
	rows := make([]EquityRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, NewEquityRow(p.Ts, p.State, p.Mark, p.CumFees))
	}
	return rows
}
