package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/account"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/metrics"
	"github.com/rustyeddy/backtester/report"
	"github.com/rustyeddy/backtester/sim"
)

// Runner drives one deterministic backtest: bars and per-bar orders in,
// report out. It performs no I/O and holds no state between runs, so
// independent runs can execute concurrently.
type Runner struct {
	Model       *sim.Model
	InitialCash float64
	RiskFree    float64 // per-step risk-free rate for the Sharpe KPI
}

// Result summarizes one run.
type Result struct {
	Report   report.Report
	Fills    []market.Fill
	Equity   []EquityRow
	Rejected []RejectedOrder

	Start time.Time
	End   time.Time
}

// Run executes the backtest loop:
//  1. activate the bar's orders
//  2. compute fills for the bar
//  3. apply fills to the account, in fill order
//  4. mark to the bar close and record an equity row
//
// ordersByBar must align 1:1 with bars; orders for bar i become active on
// bar i. Accounting violations abort the run immediately.
func (r *Runner) Run(bars []market.Bar, ordersByBar [][]market.Order) (Result, error) {
	if r.Model == nil {
		return Result{}, fmt.Errorf("backtest: Model is required")
	}
	if r.InitialCash <= 0 {
		return Result{}, fmt.Errorf("backtest: initial cash %v must be positive", r.InitialCash)
	}
	if ordersByBar != nil && len(ordersByBar) != len(bars) {
		return Result{}, fmt.Errorf("backtest: %d order slots for %d bars", len(ordersByBar), len(bars))
	}

	adapter := NewAdapter(r.Model)
	state := account.NewState(r.InitialCash)

	var (
		fills   []market.Fill
		rows    = make([]EquityRow, 0, len(bars))
		equity  = make([]float64, 0, len(bars))
		cumFees float64
	)

	for i, bar := range bars {
		if ordersByBar != nil {
			adapter.Activate(ordersByBar[i])
		}

		barFills, err := adapter.Step(bar)
		if err != nil {
			return Result{}, err
		}
		for _, f := range barFills {
			if err := state.Apply(f); err != nil {
				return Result{}, err
			}
			cumFees += f.Fee
		}
		fills = append(fills, barFills...)

		row := NewEquityRow(bar.Ts, state, bar.Close, cumFees)
		rows = append(rows, row)
		equity = append(equity, row.Equity)
	}

	kpis, err := metrics.SummaryKPIs(equity, r.RiskFree)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Report:   report.Compose(fills, *state.Clone(), equity, kpis),
		Fills:    fills,
		Equity:   rows,
		Rejected: adapter.Rejected(),
	}
	if len(bars) > 0 {
		res.Start = bars[0].Ts
		res.End = bars[len(bars)-1].Ts
	}
	return res, nil
}
