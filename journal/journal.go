package journal

import "time"

// RunRecord mirrors the runs table: one row per completed backtest.
type RunRecord struct {
	RunID   string
	Created time.Time
	Symbol  string
	Bars    int
	Fills   int

	InitialCash float64
	FinalEquity float64

	// KPIs from the report
	TotalReturn float64
	MaxDrawdown float64
	Sharpe      float64
}

// FillRecord mirrors the fills table.
type FillRecord struct {
	RunID   string
	OrderID string
	Symbol  string
	Side    string
	Qty     float64
	Price   float64
	Fee     float64
	Ts      time.Time
}

// EquityRecord mirrors the equity table: one row per simulated step.
type EquityRecord struct {
	RunID         string
	Ts            time.Time
	Cash          float64
	PositionQty   float64
	PositionValue float64
	RealizedPnL   float64
	UnrealizedPnL float64
	Fees          float64
	Equity        float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordFill(FillRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}
