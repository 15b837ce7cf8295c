package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/backtester/sim"
	"gopkg.in/yaml.v3"
)

// Config represents the complete run configuration
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Execution ExecutionConfig `json:"execution" yaml:"execution"`
	Data      DataConfig      `json:"data" yaml:"data"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Report    ReportConfig    `json:"report" yaml:"report"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
	RiskFree    float64 `json:"risk_free,omitempty" yaml:"risk_free,omitempty"`
}

// ExecutionConfig mirrors sim.Config in file form. Pointer fields distinguish
// "absent, use default" from an explicit zero.
type ExecutionConfig struct {
	MaxFillRatioPerBar       *float64 `json:"max_fill_ratio_per_bar,omitempty" yaml:"max_fill_ratio_per_bar,omitempty"`
	MinFillQty               float64  `json:"min_fill_qty,omitempty" yaml:"min_fill_qty,omitempty"`
	VolumeCapRatio           *float64 `json:"volume_cap_ratio,omitempty" yaml:"volume_cap_ratio,omitempty"`
	PriceRule                string   `json:"price_rule,omitempty" yaml:"price_rule,omitempty"`
	TouchMode                string   `json:"touch_mode,omitempty" yaml:"touch_mode,omitempty"`
	Rounding                 string   `json:"rounding,omitempty" yaml:"rounding,omitempty"`
	QtyStep                  float64  `json:"qty_step,omitempty" yaml:"qty_step,omitempty"`
	AllowPartialOnTriggerBar *bool    `json:"allow_partial_on_trigger_bar,omitempty" yaml:"allow_partial_on_trigger_bar,omitempty"`
	FeeRate                  float64  `json:"fee_rate,omitempty" yaml:"fee_rate,omitempty"`
	FeeFixed                 float64  `json:"fee_fixed,omitempty" yaml:"fee_fixed,omitempty"`
	SlippageBps              float64  `json:"slippage_bps,omitempty" yaml:"slippage_bps,omitempty"`
}

// DataConfig locates the input files
type DataConfig struct {
	BarsCSV    string `json:"bars_csv" yaml:"bars_csv"`
	OrdersFile string `json:"orders_file" yaml:"orders_file"`
	Symbol     string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "csv" or "sqlite", empty disables
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ReportConfig controls where the schema-v1 report lands
type ReportConfig struct {
	OutPath string `json:"out_path,omitempty" yaml:"out_path,omitempty"`
}

// ToSim maps the file form onto a validated execution config, filling in
// defaults for absent fields. Validation happens at model construction.
func (e ExecutionConfig) ToSim() sim.Config {
	c := sim.DefaultConfig()
	if e.MaxFillRatioPerBar != nil {
		c.MaxFillRatioPerBar = *e.MaxFillRatioPerBar
	}
	c.MinFillQty = e.MinFillQty
	if e.VolumeCapRatio != nil {
		c.VolumeCapRatio = *e.VolumeCapRatio
	}
	if e.PriceRule != "" {
		c.PriceRule = sim.PriceRule(e.PriceRule)
	}
	if e.TouchMode != "" {
		c.TouchMode = sim.TouchMode(e.TouchMode)
	}
	if e.Rounding != "" {
		c.Rounding = sim.Rounding(e.Rounding)
	}
	c.QtyStep = e.QtyStep
	if e.AllowPartialOnTriggerBar != nil {
		c.AllowPartialOnTriggerBar = *e.AllowPartialOnTriggerBar
	}
	c.FeeRate = e.FeeRate
	c.FeeFixed = e.FeeFixed
	c.SlippageBps = e.SlippageBps
	return c
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the glue-level fields. Execution settings are validated by
// sim.NewModel; invalid ones still fail the run at construction.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash %v must be positive", c.Account.InitialCash)
	}
	if c.Data.BarsCSV == "" {
		return fmt.Errorf("data.bars_csv is required")
	}
	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path is required for sqlite journal")
		}
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal.fills_file and journal.equity_file are required for csv journal")
		}
	default:
		return fmt.Errorf("unknown journal.type %q", c.Journal.Type)
	}
	return nil
}
