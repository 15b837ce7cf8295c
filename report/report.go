// Package report composes the schema-v1 backtest artifact. External tooling
// hashes the encoded bytes, so both the shape and the byte-level encoding
// are part of the contract.
package report

import (
	"errors"

	"github.com/rustyeddy/backtester/account"
	"github.com/rustyeddy/backtester/market"
)

// SchemaVersion is frozen at 1. Any incompatible change to the report shape
// must introduce a new version, never mutate this one.
const SchemaVersion = 1

var (
	// ErrNotSerializable marks a value (NaN, Inf) the schema cannot carry.
	// Rejected before write, never substituted with a sentinel.
	ErrNotSerializable = errors.New("value not serializable")

	// ErrSchemaVersion marks a decoded report with an unsupported version.
	ErrSchemaVersion = errors.New("unsupported schema version")
)

// Report is the versioned result of one run.
type Report struct {
	SchemaVersion int
	Fills         []market.Fill
	State         account.State
	Equity        []float64
	Metrics       map[string]float64
}

// Compose assembles a schema-v1 report. The state should be a snapshot the
// caller no longer mutates (see account.State.Clone).
func Compose(fills []market.Fill, state account.State, equity []float64, metrics map[string]float64) Report {
	return Report{
		SchemaVersion: SchemaVersion,
		Fills:         fills,
		State:         state,
		Equity:        equity,
		Metrics:       metrics,
	}
}
