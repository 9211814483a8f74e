package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/peakstay/parity-cli/internal/market"
	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/pipeline"
	"github.com/peakstay/parity-cli/internal/rates"
	"github.com/peakstay/parity-cli/internal/store"
)

// initEngine builds the analysis pipeline from config.
func initEngine() *pipeline.Engine {
	return pipeline.New(market.NewSet(cfg.Markets), rates.NewClient(cfg.Rates))
}

// initStore opens the configured run store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// addFilterFlags registers the record-selection flags shared by the
// analysis commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "", "strategy mode: MAX, MIN, or MEAN (default from config)")
	cmd.Flags().String("hotel", "", "restrict to one hotel (exact name)")
	cmd.Flags().String("from", "", "earliest check-in date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "latest check-in date, YYYY-MM-DD")
}

// parseRequest turns the filter flags into a pipeline request.
func parseRequest(cmd *cobra.Command) (pipeline.Request, error) {
	modeFlag, _ := cmd.Flags().GetString("strategy")
	if modeFlag == "" {
		modeFlag = cfg.Strategy.Mode
	}
	mode, err := model.ParseStrategyMode(modeFlag)
	if err != nil {
		return pipeline.Request{}, err
	}

	from, err := parseDateFlag(cmd, "from")
	if err != nil {
		return pipeline.Request{}, err
	}
	to, err := parseDateFlag(cmd, "to")
	if err != nil {
		return pipeline.Request{}, err
	}

	hotel, _ := cmd.Flags().GetString("hotel")
	return pipeline.Request{Mode: mode, Hotel: hotel, From: from, To: to}, nil
}

func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse --%s (want YYYY-MM-DD)", name)
	}
	return t, nil
}
