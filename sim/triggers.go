package sim

import "github.com/rustyeddy/backtester/market"

// limitTouched reports whether a limit level is reachable inside the bar.
func limitTouched(side market.Side, limit float64, b market.Bar, mode TouchMode) bool {
	if side == market.Buy {
		if mode == TouchThrough {
			return b.Low < limit
		}
		return b.Low <= limit
	}
	if mode == TouchThrough {
		return b.High > limit
	}
	return b.High >= limit
}

// stopTriggered reports whether a stop level is reached inside the bar.
// The boundary runs in the opposite direction from limitTouched, so this is
// kept as its own predicate rather than sharing a helper.
func stopTriggered(side market.Side, stop float64, b market.Bar, mode TouchMode) bool {
	if side == market.Buy {
		if mode == TouchThrough {
			return b.High > stop
		}
		return b.High >= stop
	}
	if mode == TouchThrough {
		return b.Low < stop
	}
	return b.Low <= stop
}
