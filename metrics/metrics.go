// Package metrics holds pure functions over a plain equity series. No
// annualization or calendar logic: a step is a step.
package metrics

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonPositive marks a reference value (prior equity, running peak) that
// leaves a return or drawdown undefined. Never silently coerced.
var ErrNonPositive = errors.New("non-positive reference value")

// Returns computes simple per-step returns r_t = equity[t]/equity[t-1] - 1.
// Empty or singleton input yields an empty slice.
func Returns(equity []float64) ([]float64, error) {
	if len(equity) < 2 {
		return []float64{}, nil
	}
	out := make([]float64, 0, len(equity)-1)
	for t := 1; t < len(equity); t++ {
		prev := equity[t-1]
		if prev <= 0 {
			return nil, fmt.Errorf("%w: equity[%d] = %v", ErrNonPositive, t-1, prev)
		}
		out = append(out, equity[t]/prev-1)
	}
	return out, nil
}

// MaxDrawdown is the worst running-peak drawdown as a non-negative fraction.
// Inputs shorter than 2 give 0.
func MaxDrawdown(equity []float64) (float64, error) {
	if len(equity) < 2 {
		return 0, nil
	}
	peak := equity[0]
	var worst float64
	for i, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			return 0, fmt.Errorf("%w: running peak %v at step %d", ErrNonPositive, peak, i)
		}
		if dd := (peak - v) / peak; dd > worst {
			worst = dd
		}
	}
	return worst, nil
}

// Sharpe is mean excess return over the population standard deviation
// (ddof=0, so the value does not depend on sample-size convention).
// Fewer than 2 returns or zero variance gives 0.
func Sharpe(returns []float64, riskFree float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var sum float64
	for _, r := range returns {
		sum += r - riskFree
	}
	mean := sum / float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := (r - riskFree) - mean
		ss += d * d
	}
	variance := ss / float64(len(returns))
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance)
}

// SummaryKPIs bundles total_return, max_drawdown, sharpe and n_steps.
// An empty series yields zeroed KPIs with n_steps 0.
func SummaryKPIs(equity []float64, riskFree float64) (map[string]float64, error) {
	kpis := map[string]float64{
		"total_return": 0,
		"max_drawdown": 0,
		"sharpe":       0,
		"n_steps":      float64(len(equity)),
	}
	if len(equity) == 0 {
		return kpis, nil
	}
	if equity[0] <= 0 {
		return nil, fmt.Errorf("%w: initial equity %v", ErrNonPositive, equity[0])
	}

	rets, err := Returns(equity)
	if err != nil {
		return nil, err
	}
	dd, err := MaxDrawdown(equity)
	if err != nil {
		return nil, err
	}

	kpis["total_return"] = equity[len(equity)-1]/equity[0] - 1
	kpis["max_drawdown"] = dd
	kpis["sharpe"] = Sharpe(rets, riskFree)
	return kpis, nil
}
