package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtester/account"
	"github.com/rustyeddy/backtester/market"
)

func sampleReport() Report {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	fills := []market.Fill{
		{OrderID: "o1", Symbol: "BTCUSD", Side: market.Buy, Qty: 1, Price: 101, Fee: 0.101, Ts: ts, BarTs: ts},
		{OrderID: "o2", Symbol: "BTCUSD", Side: market.Buy, Qty: 2, Price: 100.5, Fee: 0.201, Ts: ts, BarTs: ts},
		{OrderID: "o3", Symbol: "BTCUSD", Side: market.Sell, Qty: 3, Price: 102.25, Fee: 0.306, Ts: ts, BarTs: ts},
	}
	state := account.State{
		Cash:        10003.5,
		Positions:   map[string]float64{"BTCUSD": 0},
		AvgCost:     map[string]float64{"BTCUSD": 0},
		RealizedPnL: 3.5,
	}
	metrics := map[string]float64{
		"total_return": 0.00035,
		"max_drawdown": 0.001,
		"sharpe":       0.25,
		"n_steps":      3,
	}
	return Compose(fills, state, []float64{10000, 10001.25, 10003.5}, metrics)
}

// Serialize then re-parse: numeric fields must survive to full precision.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	data, err := Encode(r)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, SchemaVersion, got.SchemaVersion)
	require.Len(t, got.Fills, 3)
	for i := range r.Fills {
		assert.Equal(t, r.Fills[i].OrderID, got.Fills[i].OrderID)
		assert.Equal(t, r.Fills[i].Side, got.Fills[i].Side)
		assert.Equal(t, r.Fills[i].Qty, got.Fills[i].Qty)
		assert.Equal(t, r.Fills[i].Price, got.Fills[i].Price)
		assert.Equal(t, r.Fills[i].Fee, got.Fills[i].Fee)
	}
	assert.Equal(t, r.State.Cash, got.State.Cash)
	assert.Equal(t, r.State.Positions, got.State.Positions)
	assert.Equal(t, r.State.AvgCost, got.State.AvgCost)
	assert.Equal(t, r.State.RealizedPnL, got.State.RealizedPnL)
	assert.Equal(t, r.Equity, got.Equity)
	assert.Equal(t, r.Metrics, got.Metrics)
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Encode(sampleReport())
	require.NoError(t, err)
	b, err := Encode(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// Keys come out in lexicographic order at every level.
func TestEncodeKeyOrder(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleReport())
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, `{"equity":`), "got %s", s[:40])

	for _, pair := range [][2]string{
		{`"equity":`, `"fills":`},
		{`"fills":`, `"metrics":`},
		{`"metrics":`, `"schema_version":`},
		{`"schema_version":`, `"state":`},
		{`"fee":`, `"order_id":`},
		{`"order_id":`, `"price":`},
		{`"avg_cost":`, `"cash":`},
		{`"cash":`, `"positions_qty":`},
		{`"positions_qty":`, `"realized_pnl":`},
	} {
		i, j := strings.Index(s, pair[0]), strings.Index(s, pair[1])
		require.NotEqual(t, -1, i, "missing %s", pair[0])
		require.NotEqual(t, -1, j, "missing %s", pair[1])
		assert.Less(t, i, j, "%s should precede %s", pair[0], pair[1])
	}
}

func TestEncodeEmptyReport(t *testing.T) {
	t.Parallel()

	r := Compose(nil, account.State{}, nil, nil)
	data, err := Encode(r)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"equity":[]`)
	assert.Contains(t, s, `"fills":[]`)
	assert.Contains(t, s, `"metrics":{}`)
	assert.Contains(t, s, `"positions_qty":{}`)
}

func TestEncodeRejectsNaN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Report)
	}{
		{"fill_price", func(r *Report) { r.Fills[0].Price = math.NaN() }},
		{"fill_fee", func(r *Report) { r.Fills[1].Fee = math.Inf(1) }},
		{"cash", func(r *Report) { r.State.Cash = math.NaN() }},
		{"position", func(r *Report) { r.State.Positions["BTCUSD"] = math.Inf(-1) }},
		{"avg_cost", func(r *Report) { r.State.AvgCost["BTCUSD"] = math.NaN() }},
		{"equity", func(r *Report) { r.Equity[2] = math.NaN() }},
		{"metric", func(r *Report) { r.Metrics["sharpe"] = math.Inf(1) }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := sampleReport()
			tt.mutate(&r)
			_, err := Encode(r)
			assert.ErrorIs(t, err, ErrNotSerializable)
		})
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleReport())
	require.NoError(t, err)

	bad := strings.Replace(string(data), `"schema_version":1`, `"schema_version":2`, 1)
	_, err = Decode([]byte(bad))
	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestDecodeRejectsBadSide(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleReport())
	require.NoError(t, err)

	bad := strings.Replace(string(data), `"side":"BUY"`, `"side":"HOLD"`, 1)
	_, err = Decode([]byte(bad))
	assert.ErrorIs(t, err, market.ErrInvalidOrder)
}
