package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/peakstay/parity-cli/internal/config"
	"github.com/peakstay/parity-cli/internal/model"
)

// ErrNoData means every market source failed or was empty; the pipeline
// halts before strategy computation in that case.
var ErrNoData = eris.New("market: no data in any market source")

// Snapshot is the raw output of one load pass across all four markets.
// Warnings carry per-market load failures; a failed market keeps an empty
// observation set so the merge never loses its columns.
type Snapshot struct {
	Records  [model.NumMarkets]model.MarketRecords
	Warnings []string
}

// Total returns the observation count across all markets.
func (s *Snapshot) Total() int {
	var n int
	for _, r := range s.Records {
		n += len(r.Observations)
	}
	return n
}

// Set loads all four markets and memoizes the result until invalidated.
// The loads themselves run concurrently; each loader owns its data, and the
// merged snapshot is only read afterwards.
type Set struct {
	loaders [model.NumMarkets]Loader

	mu     sync.Mutex
	cached *Snapshot
}

// NewSet builds the four standard loaders from config.
func NewSet(cfg config.MarketsConfig) *Set {
	return &Set{
		loaders: [model.NumMarkets]Loader{
			NewSQLiteLoader(model.MarketTR, cfg.TR.DBPath),
			NewSQLiteLoader(model.MarketUS, cfg.US.DBPath),
			NewSQLiteLoader(model.MarketDE, cfg.DE.DBPath),
			NewSQLiteLoader(model.MarketUK, cfg.UK.DBPath),
		},
	}
}

// NewSetWithLoaders builds a Set from explicit loaders, in market order.
func NewSetWithLoaders(loaders [model.NumMarkets]Loader) *Set {
	return &Set{loaders: loaders}
}

// Load returns the current snapshot, loading from the sources on first use
// or after Invalidate. Returns ErrNoData only when all four markets come
// back empty.
func (s *Set) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	snap := &Snapshot{}
	var warnMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, loader := range s.loaders {
		i, loader := i, loader
		g.Go(func() error {
			records, err := loader.Load(gctx)
			if err != nil {
				warnMu.Lock()
				snap.Warnings = append(snap.Warnings,
					fmt.Sprintf("%s market unavailable: %v", loader.Market().Code(), eris.Cause(err)))
				warnMu.Unlock()
				zap.L().Warn("market load failed",
					zap.String("market", loader.Market().Code()),
					zap.Error(err),
				)
				records = model.MarketRecords{Market: loader.Market()}
			}
			snap.Records[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "market: load set")
	}

	if snap.Total() == 0 {
		return nil, ErrNoData
	}

	s.cached = snap
	return snap, nil
}

// Invalidate clears the memoized snapshot so the next Load rereads the
// sources.
func (s *Set) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	zap.L().Info("market cache cleared")
}

// Paths returns the configured database paths, for file watchers.
func Paths(cfg config.MarketsConfig) []string {
	return []string{cfg.TR.DBPath, cfg.US.DBPath, cfg.DE.DBPath, cfg.UK.DBPath}
}
