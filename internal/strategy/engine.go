// Package strategy normalizes market prices into the common currency and
// derives per-record targets and deviations under the active pricing
// strategy. Everything here is pure: no I/O, safe to re-run on every
// interaction.
package strategy

import (
	"github.com/peakstay/parity-cli/internal/model"
)

// Compute attaches a StrategyResult to every record. A price of 0 means
// "no observation" and never participates in max/min/mean; when no market
// observed a price the target is 0 and every deviation is exactly 0.
func Compute(records []model.ReconciledRecord, mode model.StrategyMode, rates model.RateSet) []model.AnalyzedRecord {
	out := make([]model.AnalyzedRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, ComputeOne(rec, mode, rates))
	}
	return out
}

// ComputeOne derives one record's strategy result.
func ComputeOne(rec model.ReconciledRecord, mode model.StrategyMode, rates model.RateSet) model.AnalyzedRecord {
	analyzed := model.AnalyzedRecord{ReconciledRecord: rec}

	for _, m := range model.AllMarkets {
		analyzed.Quotes[m].Normalized = rec.Quotes[m].Price * rates.For(m)
	}

	result := model.StrategyResult{Mode: mode}
	for _, m := range model.AllMarkets {
		if p := analyzed.Quotes[m].Normalized; p > 0 {
			result.Available = append(result.Available, p)
		}
	}

	if len(result.Available) > 0 {
		result.Max = result.Available[0]
		result.Min = result.Available[0]
		var sum float64
		for _, p := range result.Available {
			if p > result.Max {
				result.Max = p
			}
			if p < result.Min {
				result.Min = p
			}
			sum += p
		}
		result.Mean = sum / float64(len(result.Available))
	}

	switch mode {
	case model.StrategyMax:
		result.Target = result.Max
	case model.StrategyMin:
		result.Target = result.Min
	default:
		result.Target = result.Mean
	}

	for _, m := range model.AllMarkets {
		result.Deviation[m] = analyzed.Quotes[m].Normalized - result.Target
		if result.Target > 0 {
			result.DeviationPct[m] = result.Deviation[m] / result.Target * 100
		}
	}

	analyzed.Strategy = result
	return analyzed
}
