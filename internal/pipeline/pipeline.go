// Package pipeline runs one full reconciliation pass: load the four market
// sources, merge, resolve exchange rates, filter, and derive the strategy
// columns. Each pass works on its own derived copies; the raw loaded
// records are never mutated.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/peakstay/parity-cli/internal/market"
	"github.com/peakstay/parity-cli/internal/merge"
	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/rates"
	"github.com/peakstay/parity-cli/internal/strategy"
)

// ErrNoData re-exports the fatal all-sources-empty condition.
var ErrNoData = market.ErrNoData

// Request selects what one analysis pass covers.
type Request struct {
	Mode  model.StrategyMode
	Hotel string    // empty = all hotels
	From  time.Time // zero = unbounded
	To    time.Time
}

// Analysis is the complete result of one pass.
type Analysis struct {
	Request  Request                `json:"request"`
	Records  []model.AnalyzedRecord `json:"records"`
	Rates    model.RateQuote        `json:"rates"`
	KPI      strategy.KPIReport     `json:"kpi"`
	Hotels   []string               `json:"hotels"`
	Warnings []string               `json:"warnings,omitempty"`
}

// Engine wires the loaders and the rate client into a reusable pipeline.
type Engine struct {
	markets *market.Set
	rates   *rates.Client
}

// New creates an Engine over the given market set and rate client.
func New(markets *market.Set, rateClient *rates.Client) *Engine {
	return &Engine{markets: markets, rates: rateClient}
}

// Invalidate clears the memoized market loads so the next Run rereads the
// scraper databases.
func (e *Engine) Invalidate() {
	e.markets.Invalidate()
}

// Snapshot exposes the raw loaded observations, for health reporting.
func (e *Engine) Snapshot(ctx context.Context) (*market.Snapshot, error) {
	return e.markets.Load(ctx)
}

// Rates resolves the current exchange-rate quote.
func (e *Engine) Rates(ctx context.Context) model.RateQuote {
	return e.rates.Get(ctx)
}

// RefreshRates forces a rate refetch past the TTL cache.
func (e *Engine) RefreshRates(ctx context.Context) model.RateQuote {
	return e.rates.Refresh(ctx)
}

// Run executes one full pass. A filter that matches nothing is not an
// error: the result carries zero records plus a warning, and the caller
// decides how to present the empty state.
func (e *Engine) Run(ctx context.Context, req Request) (*Analysis, error) {
	started := time.Now()

	snap, err := e.markets.Load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load markets")
	}

	merged := merge.Records(snap)
	if len(merged) == 0 {
		return nil, eris.Wrap(ErrNoData, "pipeline: merge produced no records")
	}

	analysis := &Analysis{
		Request:  req,
		Rates:    e.rates.Get(ctx),
		Hotels:   merge.Hotels(merged),
		Warnings: append([]string(nil), snap.Warnings...),
	}

	filtered := merge.Filter(merged, req.Hotel, req.From, req.To)
	if len(filtered) == 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("no records match hotel=%q from=%s to=%s",
				req.Hotel, formatBound(req.From), formatBound(req.To)))
		analysis.KPI = strategy.Aggregate(nil, req.Mode)
		return analysis, nil
	}

	analysis.Records = strategy.Compute(filtered, req.Mode, analysis.Rates.Rates)
	analysis.KPI = strategy.Aggregate(analysis.Records, req.Mode)

	zap.L().Info("analysis pass complete",
		zap.String("mode", string(req.Mode)),
		zap.Int("records", len(analysis.Records)),
		zap.Int("hotels", len(analysis.Hotels)),
		zap.String("rate_status", string(analysis.Rates.Status)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return analysis, nil
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format("2006-01-02")
}
