package market

import "time"

// Bar is one OHLCV snapshot: a single simulated step.
// Bars are immutable; nothing in the engine writes to one.
type Bar struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64 // 0 means not supplied
}

// Mid returns the midpoint of the bar's range.
func (b Bar) Mid() float64 {
	return (b.High + b.Low) / 2
}
