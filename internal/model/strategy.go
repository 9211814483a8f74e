package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// StrategyMode selects the rule that picks the target price for a record.
type StrategyMode string

const (
	StrategyMax  StrategyMode = "MAX"  // premium: target the highest market price
	StrategyMin  StrategyMode = "MIN"  // competitive: target the lowest market price
	StrategyMean StrategyMode = "MEAN" // balanced: target the mean of observed prices
)

// ParseStrategyMode parses a mode string case-insensitively.
func ParseStrategyMode(s string) (StrategyMode, error) {
	switch StrategyMode(strings.ToUpper(strings.TrimSpace(s))) {
	case StrategyMax:
		return StrategyMax, nil
	case StrategyMin:
		return StrategyMin, nil
	case StrategyMean:
		return StrategyMean, nil
	}
	return "", eris.Errorf("model: unknown strategy mode %q (want MAX, MIN, or MEAN)", s)
}

// Description returns the label used in reports for the mode's target basis.
func (m StrategyMode) Description() string {
	switch m {
	case StrategyMax:
		return "highest market price"
	case StrategyMin:
		return "lowest market price"
	default:
		return "market mean price"
	}
}

// StrategyResult holds the derived fields for one record under one strategy.
// Recomputed whenever the mode or the rates change; never cached across
// strategy switches.
type StrategyResult struct {
	Mode         StrategyMode        `json:"mode"`
	Target       float64             `json:"target"`    // common currency; 0 when no prices observed
	Available    []float64           `json:"available"` // nonzero normalized prices, column order
	Max          float64             `json:"max"`
	Min          float64             `json:"min"`
	Mean         float64             `json:"mean"`
	Deviation    [NumMarkets]float64 `json:"deviation"`     // normalized − target
	DeviationPct [NumMarkets]float64 `json:"deviation_pct"` // deviation / target × 100; 0 when target is 0
}

// AnalyzedRecord pairs a reconciled record with its strategy derivation.
type AnalyzedRecord struct {
	ReconciledRecord
	Strategy StrategyResult `json:"strategy"`
}
