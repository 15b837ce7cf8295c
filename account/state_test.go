package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtester/market"
)

func TestApplyBuy(t *testing.T) {
	t.Parallel()

	s := NewState(10000)
	err := s.Apply(market.Fill{OrderID: "o1", Symbol: "BTCUSD", Side: market.Buy, Qty: 1, Price: 101, Fee: 0})
	require.NoError(t, err)

	assert.InDelta(t, 10000-101, s.Cash, 1e-9)
	assert.InDelta(t, 1, s.Positions["BTCUSD"], 1e-9)
	assert.InDelta(t, 101, s.AvgCost["BTCUSD"], 1e-9)
	assert.InDelta(t, 0, s.RealizedPnL, 1e-9)
}

func TestAvgCostBlending(t *testing.T) {
	t.Parallel()

	s := NewState(100000)
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 10, Price: 100}))
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 10, Price: 110}))

	assert.InDelta(t, 20, s.Positions["X"], 1e-9)
	assert.InDelta(t, 105, s.AvgCost["X"], 1e-9)
}

// Buy 10@100 then sell 10@110 with a 1.0 fee each way: avg cost resets on
// full exit and realized PnL books the sell fee exactly once.
func TestRoundTripRealizedPnL(t *testing.T) {
	t.Parallel()

	s := NewState(10000)
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 10, Price: 100, Fee: 1}))
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Sell, Qty: 10, Price: 110, Fee: 1}))

	assert.InDelta(t, 99, s.RealizedPnL, 1e-9) // (110-100)*10 - 1
	assert.InDelta(t, 0, s.Positions["X"], 1e-9)
	assert.InDelta(t, 0, s.AvgCost["X"], 1e-9)
	assert.InDelta(t, 10000-1001+1099, s.Cash, 1e-9)
}

func TestPartialSellKeepsAvgCost(t *testing.T) {
	t.Parallel()

	s := NewState(10000)
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 10, Price: 100}))
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Sell, Qty: 4, Price: 105}))

	assert.InDelta(t, 6, s.Positions["X"], 1e-9)
	assert.InDelta(t, 100, s.AvgCost["X"], 1e-9)
	assert.InDelta(t, 20, s.RealizedPnL, 1e-9)
}

func TestShortSaleRejected(t *testing.T) {
	t.Parallel()

	s := NewState(10000)
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 5, Price: 100}))

	err := s.Apply(market.Fill{Symbol: "X", Side: market.Sell, Qty: 6, Price: 100})
	assert.ErrorIs(t, err, ErrShortSale)

	// State is untouched by the rejected fill.
	assert.InDelta(t, 5, s.Positions["X"], 1e-9)
	assert.InDelta(t, 10000-500, s.Cash, 1e-9)
}

func TestSellUnknownSymbolRejected(t *testing.T) {
	t.Parallel()

	s := NewState(10000)
	err := s.Apply(market.Fill{Symbol: "Y", Side: market.Sell, Qty: 1, Price: 100})
	assert.ErrorIs(t, err, ErrShortSale)
}

func TestEmptyFillListIsNoOp(t *testing.T) {
	t.Parallel()

	s := NewState(5000)
	for _, f := range []market.Fill{} {
		require.NoError(t, s.Apply(f))
	}
	assert.InDelta(t, 5000, s.Cash, 1e-9)
	assert.Empty(t, s.Positions)
	assert.InDelta(t, 0, s.RealizedPnL, 1e-9)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := NewState(1000)
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 1, Price: 10}))

	c := s.Clone()
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 1, Price: 20}))

	assert.InDelta(t, 1, c.Positions["X"], 1e-9)
	assert.InDelta(t, 10, c.AvgCost["X"], 1e-9)
	assert.InDelta(t, 2, s.Positions["X"], 1e-9)
}

func TestMarkHelpers(t *testing.T) {
	t.Parallel()

	s := NewState(1000)
	require.NoError(t, s.Apply(market.Fill{Symbol: "X", Side: market.Buy, Qty: 2, Price: 100}))

	assert.InDelta(t, 2, s.TotalQty(), 1e-9)
	assert.InDelta(t, 220, s.PositionValue(110), 1e-9)
	assert.InDelta(t, 20, s.UnrealizedPnL(110), 1e-9)
}
