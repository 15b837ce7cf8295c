package sim

import (
	"math"

	"github.com/rustyeddy/backtester/market"
)

// marketPrice resolves the execution price for a marketable order: base price
// per the configured rule, then slippage worsening the taker's side.
func (c Config) marketPrice(side market.Side, b market.Bar) float64 {
	var px float64
	switch c.PriceRule {
	case PriceMid:
		px = (b.High + b.Low) / 2
	case PriceClose:
		px = b.Close
	default: // worst
		if side == market.Buy {
			px = b.High
		} else {
			px = b.Low
		}
	}
	return c.slip(side, px)
}

func (c Config) slip(side market.Side, px float64) float64 {
	if c.SlippageBps == 0 {
		return px
	}
	adj := c.SlippageBps / 10000.0
	if side == market.Buy {
		return px * (1 + adj)
	}
	return px * (1 - adj)
}

// clampLimit keeps the final price on the favorable side of the limit.
// The limit is a hard boundary: slippage may never push a BUY above it or a
// SELL below it.
func clampLimit(side market.Side, px, limit float64) float64 {
	if side == market.Buy {
		return math.Min(px, limit)
	}
	return math.Max(px, limit)
}
