package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run record by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, symbol, bars, fills, initial_cash, final_equity, total_return, max_drawdown, sharpe
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Symbol,
		&rec.Bars,
		&rec.Fills,
		&rec.InitialCash,
		&rec.FinalEquity,
		&rec.TotalReturn,
		&rec.MaxDrawdown,
		&rec.Sharpe,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListFillsByRun returns a run's fills in execution order.
func (j *SQLiteJournal) ListFillsByRun(runID string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, order_id, symbol, side, qty, price, fee, ts
		FROM fills
		WHERE run_id = ?
		ORDER BY ts ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.OrderID,
			&rec.Symbol,
			&rec.Side,
			&rec.Qty,
			&rec.Price,
			&rec.Fee,
			&rec.Ts,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns a run's equity curve in time order.
func (j *SQLiteJournal) ListEquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, ts, cash, position_qty, position_value, realized_pnl, unrealized_pnl, fees, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY ts ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var rec EquityRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Ts,
			&rec.Cash,
			&rec.PositionQty,
			&rec.PositionValue,
			&rec.RealizedPnL,
			&rec.UnrealizedPnL,
			&rec.Fees,
			&rec.Equity,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
