package sim

import "math"

// budget computes the fillable quantity for one order on one bar:
// remaining qty, capped by the per-bar ratio, capped by bar volume,
// suppressed below the minimum fill, then rounded.
func (c Config) budget(rem, barVolume float64) float64 {
	q := rem
	if r := rem * c.MaxFillRatioPerBar; r < q {
		q = r
	}
	// A bar without volume carries no volume constraint.
	if barVolume > 0 {
		if v := barVolume * c.VolumeCapRatio; v < q {
			q = v
		}
	}
	if q < c.MinFillQty {
		return 0
	}
	switch c.Rounding {
	case RoundFloor:
		q = math.Floor(q/c.QtyStep) * c.QtyStep
	case RoundCeil:
		q = math.Ceil(q/c.QtyStep) * c.QtyStep
		if q > rem {
			// Conservation beats step alignment: never round past the
			// order's remaining quantity.
			q = rem
		}
	}
	if q <= 0 {
		return 0
	}
	return q
}
