package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndGetRun(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)

	rec := RunRecord{
		RunID:       "01RUN",
		Created:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Symbol:      "BTCUSD",
		Bars:        100,
		Fills:       7,
		InitialCash: 10000,
		FinalEquity: 10250.5,
		TotalReturn: 0.02505,
		MaxDrawdown: 0.01,
		Sharpe:      0.8,
	}
	require.NoError(t, j.RecordRun(rec))

	got, err := j.GetRun("01RUN")
	require.NoError(t, err)
	assert.Equal(t, rec.RunID, got.RunID)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Bars, got.Bars)
	assert.Equal(t, rec.Fills, got.Fills)
	assert.InDelta(t, rec.FinalEquity, got.FinalEquity, 1e-9)
	assert.InDelta(t, rec.TotalReturn, got.TotalReturn, 1e-9)
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)
	_, err := j.GetRun("missing")
	assert.Error(t, err)
}

func TestListFillsByRunOrdered(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, j.RecordFill(FillRecord{
			RunID:   "r1",
			OrderID: id,
			Symbol:  "X",
			Side:    "BUY",
			Qty:     float64(i + 1),
			Price:   100,
			Ts:      t0.Add(time.Duration(i) * time.Minute),
		}))
	}
	// another run's fill must not leak in
	require.NoError(t, j.RecordFill(FillRecord{RunID: "r2", OrderID: "zz", Symbol: "X", Side: "SELL", Qty: 1, Price: 99, Ts: t0}))

	fills, err := j.ListFillsByRun("r1")
	require.NoError(t, err)
	require.Len(t, fills, 3)
	assert.Equal(t, "o1", fills[0].OrderID)
	assert.Equal(t, "o3", fills[2].OrderID)
	assert.InDelta(t, 3, fills[2].Qty, 1e-9)
}

func TestListEquityByRun(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, j.RecordEquity(EquityRecord{
			RunID:  "r1",
			Ts:     t0.Add(time.Duration(i) * time.Minute),
			Cash:   10000,
			Equity: 10000 + float64(i),
		}))
	}

	rows, err := j.ListEquityByRun("r1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.InDelta(t, 10002, rows[2].Equity, 1e-9)
}
