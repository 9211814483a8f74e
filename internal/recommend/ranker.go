// Package recommend turns analyzed records into ranked, human-readable
// price adjustment suggestions.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/peakstay/parity-cli/internal/model"
)

// DefaultThresholdPct is the deviation tolerance before a market is flagged.
const DefaultThresholdPct = 10.0

// flagged returns whether a deviation percentage breaches the threshold
// under the mode's comparison rule.
func flagged(pct float64, mode model.StrategyMode, threshold float64) bool {
	switch mode {
	case model.StrategyMax:
		return pct < -threshold
	case model.StrategyMin:
		return pct > threshold
	default:
		return math.Abs(pct) > threshold
	}
}

// Build produces one Recommendation per record with at least one flagged
// market, ranked descending by the sum of |deviation %| over the flagged
// markets. The sort is stable, so equal scores keep record order. An empty
// result is the valid "all clear" state.
func Build(records []model.AnalyzedRecord, mode model.StrategyMode, threshold float64, rates model.RateSet) []model.Recommendation {
	var recs []model.Recommendation

	for _, rec := range records {
		var advice []model.MarketAdvice
		var score float64

		for _, m := range model.AllMarkets {
			pct := rec.Strategy.DeviationPct[m]
			if !flagged(pct, mode, threshold) {
				continue
			}
			advice = append(advice, adviseMarket(rec, m, rates))
			score += math.Abs(pct)
		}

		if len(advice) > 0 {
			recs = append(recs, model.Recommendation{
				Hotel:   rec.Hotel,
				Checkin: rec.Checkin,
				Score:   score,
				Advice:  advice,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

// adviseMarket builds the directional suggestion for one flagged market,
// quoting both prices in the market's native currency.
func adviseMarket(rec model.AnalyzedRecord, m model.Market, rates model.RateSet) model.MarketAdvice {
	pct := rec.Strategy.DeviationPct[m]
	current := rec.Quotes[m].Price

	target := rec.Strategy.Target
	if rate := rates.For(m); rate > 0 {
		target = rec.Strategy.Target / rate
	}

	advice := model.MarketAdvice{
		Market:       m,
		Currency:     m.Currency(),
		CurrentPrice: current,
		TargetPrice:  target,
		DeltaPct:     math.Abs(pct),
	}

	if pct < 0 {
		advice.Direction = model.DirectionIncrease
		advice.Delta = target - current
		advice.Text = fmt.Sprintf("%s: raise price from %.0f %s to %.0f %s (+%.0f %s, +%.1f%%)",
			m.DisplayName(), current, advice.Currency, target, advice.Currency, advice.Delta, advice.Currency, advice.DeltaPct)
	} else {
		advice.Direction = model.DirectionDecrease
		advice.Delta = current - target
		advice.Text = fmt.Sprintf("%s: lower price from %.0f %s to %.0f %s (-%.0f %s, -%.1f%%)",
			m.DisplayName(), current, advice.Currency, target, advice.Currency, advice.Delta, advice.Currency, advice.DeltaPct)
	}
	return advice
}
