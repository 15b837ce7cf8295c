package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, bars, fills, initial_cash, final_equity, total_return, max_drawdown, sharpe)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Bars, r.Fills,
		r.InitialCash, r.FinalEquity, r.TotalReturn, r.MaxDrawdown, r.Sharpe,
	)
	return err
}

func (j *SQLiteJournal) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(run_id, order_id, symbol, side, qty, price, fee, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.RunID, f.OrderID, f.Symbol, f.Side, f.Qty, f.Price, f.Fee, f.Ts,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, ts, cash, position_qty, position_value, realized_pnl, unrealized_pnl, fees, equity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Ts, e.Cash, e.PositionQty, e.PositionValue,
		e.RealizedPnL, e.UnrealizedPnL, e.Fees, e.Equity,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
