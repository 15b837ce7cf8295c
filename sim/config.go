package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks a Config rejected at construction. A bad config is
// fatal to the run; it is never patched up at use.
var ErrInvalidConfig = errors.New("invalid execution config")

type PriceRule string

const (
	PriceWorst PriceRule = "worst"
	PriceMid   PriceRule = "mid"
	PriceClose PriceRule = "close"
)

// TouchMode decides whether a price level counts when a bar merely reaches
// it (touch) or must strictly cross it (through).
type TouchMode string

const (
	TouchTouch   TouchMode = "touch"
	TouchThrough TouchMode = "through"
)

type Rounding string

const (
	RoundNone  Rounding = "none"
	RoundFloor Rounding = "floor"
	RoundCeil  Rounding = "ceil"
)

// Config controls fill budgets, eligibility boundaries and pricing.
// Zero values are not usable; start from DefaultConfig.
type Config struct {
	MaxFillRatioPerBar float64 // (0,1], cap on fraction of remaining qty per bar
	MinFillQty         float64 // fills below this are suppressed entirely
	VolumeCapRatio     float64 // (0,1], cap vs bar volume

	PriceRule PriceRule
	TouchMode TouchMode

	Rounding Rounding
	QtyStep  float64 // required positive when Rounding is floor/ceil

	// AllowPartialOnTriggerBar lets a just-triggered stop execute on the
	// same bar. When false the stop trades as a market order from the next
	// bar on.
	AllowPartialOnTriggerBar bool

	FeeRate     float64
	FeeFixed    float64 // optional fixed fee component per fill
	SlippageBps float64
}

func DefaultConfig() Config {
	return Config{
		MaxFillRatioPerBar:       1.0,
		VolumeCapRatio:           1.0,
		PriceRule:                PriceWorst,
		TouchMode:                TouchTouch,
		Rounding:                 RoundNone,
		AllowPartialOnTriggerBar: true,
	}
}

func (c Config) Validate() error {
	if !(c.MaxFillRatioPerBar > 0 && c.MaxFillRatioPerBar <= 1) {
		return fmt.Errorf("%w: max_fill_ratio_per_bar %v outside (0,1]", ErrInvalidConfig, c.MaxFillRatioPerBar)
	}
	if !(c.VolumeCapRatio > 0 && c.VolumeCapRatio <= 1) {
		return fmt.Errorf("%w: volume_cap_ratio %v outside (0,1]", ErrInvalidConfig, c.VolumeCapRatio)
	}
	if c.MinFillQty < 0 {
		return fmt.Errorf("%w: min_fill_qty %v is negative", ErrInvalidConfig, c.MinFillQty)
	}
	switch c.PriceRule {
	case PriceWorst, PriceMid, PriceClose:
	default:
		return fmt.Errorf("%w: unknown price_rule %q", ErrInvalidConfig, c.PriceRule)
	}
	switch c.TouchMode {
	case TouchTouch, TouchThrough:
	default:
		return fmt.Errorf("%w: unknown touch_mode %q", ErrInvalidConfig, c.TouchMode)
	}
	switch c.Rounding {
	case RoundNone:
	case RoundFloor, RoundCeil:
		if c.QtyStep <= 0 {
			return fmt.Errorf("%w: qty_step %v must be positive when rounding is %q", ErrInvalidConfig, c.QtyStep, c.Rounding)
		}
	default:
		return fmt.Errorf("%w: unknown rounding %q", ErrInvalidConfig, c.Rounding)
	}
	if c.FeeRate < 0 {
		return fmt.Errorf("%w: fee_rate %v is negative", ErrInvalidConfig, c.FeeRate)
	}
	if c.FeeFixed < 0 {
		return fmt.Errorf("%w: fee_fixed %v is negative", ErrInvalidConfig, c.FeeFixed)
	}
	if c.SlippageBps < 0 {
		return fmt.Errorf("%w: slippage_bps %v is negative", ErrInvalidConfig, c.SlippageBps)
	}
	return nil
}
