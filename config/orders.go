package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rustyeddy/backtester/market"
	"gopkg.in/yaml.v3"
)

// OrderSpec is the file form of one scheduled order. Bar is the index of the
// bar on which the order becomes active.
type OrderSpec struct {
	Bar        int     `json:"bar" yaml:"bar"`
	ID         string  `json:"id" yaml:"id"`
	Symbol     string  `json:"symbol" yaml:"symbol"`
	Side       string  `json:"side" yaml:"side"`
	Type       string  `json:"type" yaml:"type"`
	Qty        float64 `json:"qty" yaml:"qty"`
	LimitPrice float64 `json:"limit_price,omitempty" yaml:"limit_price,omitempty"`
	StopPrice  float64 `json:"stop_price,omitempty" yaml:"stop_price,omitempty"`
}

// LoadOrders reads an order schedule (YAML or JSON) and expands it to
// per-bar order lists aligned 1:1 with nBars bars. Unknown sides/types and
// out-of-range bar indexes are file errors; per-order semantic validation
// (qty, required prices) stays with the execution adapter.
func LoadOrders(path string, nBars int) ([][]market.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}

	var specs []OrderSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		if jerr := json.Unmarshal(data, &specs); jerr != nil {
			return nil, fmt.Errorf("parse orders (tried YAML and JSON): %w", err)
		}
	}

	byBar := make([][]market.Order, nBars)
	for i, s := range specs {
		if s.Bar < 0 || s.Bar >= nBars {
			return nil, fmt.Errorf("order %d (%q): bar %d outside [0,%d)", i, s.ID, s.Bar, nBars)
		}
		side, err := market.ParseSide(s.Side)
		if err != nil {
			return nil, fmt.Errorf("order %d (%q): %w", i, s.ID, err)
		}
		typ, err := market.ParseOrderType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("order %d (%q): %w", i, s.ID, err)
		}
		byBar[s.Bar] = append(byBar[s.Bar], market.Order{
			ID:         s.ID,
			Symbol:     s.Symbol,
			Side:       side,
			Type:       typ,
			Qty:        s.Qty,
			LimitPrice: s.LimitPrice,
			StopPrice:  s.StopPrice,
		})
	}
	return byBar, nil
}
