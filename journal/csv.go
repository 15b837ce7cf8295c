// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	fills  *csv.Writer
	equity *csv.Writer
	ff, ef *os.File
}

func NewCSV(fillsPath, equityPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	ew := csv.NewWriter(ef)

	if err := fw.Write([]string{"run_id", "order_id", "symbol", "side", "qty", "price", "fee", "ts"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "ts", "cash", "position_qty", "position_value", "realized_pnl", "unrealized_pnl", "fees", "equity"}); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{fw, ew, ff, ef}, nil
}

func (j *CSVJournal) RecordRun(RunRecord) error {
	// Run summaries live in SQLite; the CSV journal only streams rows.
	return nil
}

func (j *CSVJournal) RecordFill(r FillRecord) error {
	err := j.fills.Write([]string{
		r.RunID,
		r.OrderID,
		r.Symbol,
		r.Side,
		f(r.Qty),
		f(r.Price),
		f(r.Fee),
		r.Ts.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordEquity(e EquityRecord) error {
	err := j.equity.Write([]string{
		e.RunID,
		e.Ts.Format(time.RFC3339),
		f(e.Cash),
		f(e.PositionQty),
		f(e.PositionValue),
		f(e.RealizedPnL),
		f(e.UnrealizedPnL),
		f(e.Fees),
		f(e.Equity),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.fills.Flush()
	j.equity.Flush()
	if err := j.ff.Close(); err != nil {
		j.ef.Close()
		return err
	}
	return j.ef.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
