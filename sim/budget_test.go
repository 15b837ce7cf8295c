package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  func(Config) Config
		rem  float64
		vol  float64
		want float64
	}{
		{
			name: "full_fill",
			cfg:  func(c Config) Config { return c },
			rem:  5, vol: 100,
			want: 5,
		},
		{
			name: "ratio_cap",
			cfg: func(c Config) Config {
				c.MaxFillRatioPerBar = 0.5
				return c
			},
			rem: 10, vol: 100,
			want: 5,
		},
		{
			name: "volume_cap",
			cfg: func(c Config) Config {
				c.VolumeCapRatio = 0.5
				return c
			},
			rem: 10, vol: 10,
			want: 5,
		},
		{
			name: "zero_volume_means_no_cap",
			cfg:  func(c Config) Config { return c },
			rem:  10, vol: 0,
			want: 10,
		},
		{
			name: "below_min_fill_suppressed",
			cfg: func(c Config) Config {
				c.MinFillQty = 6
				c.VolumeCapRatio = 0.5
				return c
			},
			rem: 10, vol: 10,
			want: 0,
		},
		{
			name: "exactly_min_fill_allowed",
			cfg: func(c Config) Config {
				c.MinFillQty = 5
				c.VolumeCapRatio = 0.5
				return c
			},
			rem: 10, vol: 10,
			want: 5,
		},
		{
			name: "floor_rounding",
			cfg: func(c Config) Config {
				c.Rounding = RoundFloor
				c.QtyStep = 2
				return c
			},
			rem: 7, vol: 100,
			want: 6,
		},
		{
			name: "ceil_rounding_clamped_to_remaining",
			cfg: func(c Config) Config {
				c.Rounding = RoundCeil
				c.QtyStep = 2
				return c
			},
			rem: 7, vol: 100,
			want: 7,
		},
		{
			name: "ceil_rounding_up_within_remaining",
			cfg: func(c Config) Config {
				c.Rounding = RoundCeil
				c.QtyStep = 2
				c.MaxFillRatioPerBar = 0.5
				return c
			},
			rem: 10, vol: 100,
			want: 6, // 5 -> ceil to 6, still <= rem
		},
		{
			name: "floor_to_zero_suppressed",
			cfg: func(c Config) Config {
				c.Rounding = RoundFloor
				c.QtyStep = 10
				return c
			},
			rem: 7, vol: 100,
			want: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := tt.cfg(DefaultConfig())
			got := c.budget(tt.rem, tt.vol)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  func(Config) Config
		ok   bool
	}{
		{"defaults", func(c Config) Config { return c }, true},
		{"ratio_zero", func(c Config) Config { c.MaxFillRatioPerBar = 0; return c }, false},
		{"ratio_above_one", func(c Config) Config { c.MaxFillRatioPerBar = 1.5; return c }, false},
		{"volume_ratio_zero", func(c Config) Config { c.VolumeCapRatio = 0; return c }, false},
		{"negative_min_fill", func(c Config) Config { c.MinFillQty = -1; return c }, false},
		{"bad_price_rule", func(c Config) Config { c.PriceRule = "open"; return c }, false},
		{"bad_touch_mode", func(c Config) Config { c.TouchMode = "cross"; return c }, false},
		{"rounding_without_step", func(c Config) Config { c.Rounding = RoundFloor; return c }, false},
		{"rounding_negative_step", func(c Config) Config { c.Rounding = RoundCeil; c.QtyStep = -0.1; return c }, false},
		{"rounding_with_step", func(c Config) Config { c.Rounding = RoundCeil; c.QtyStep = 0.5; return c }, true},
		{"bad_rounding", func(c Config) Config { c.Rounding = "banker"; return c }, false},
		{"negative_fee_rate", func(c Config) Config { c.FeeRate = -0.001; return c }, false},
		{"negative_slippage", func(c Config) Config { c.SlippageBps = -1; return c }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg(DefaultConfig()).Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
