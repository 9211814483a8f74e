package main

import (
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peakstay/parity-cli/internal/market"
	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/recommend"
	"github.com/peakstay/parity-cli/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis on a schedule and when the scrape databases change",
	Long:  "Runs the reconciliation pass on the configured cron schedule, and again whenever one of the market databases is rewritten. Each pass reloads the sources from scratch.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req, err := parseRequest(cmd)
		if err != nil {
			return err
		}
		save, _ := cmd.Flags().GetBool("save")

		engine := initEngine()

		var st store.Store
		if save {
			if st, err = initStore(ctx); err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		runPass := func() {
			engine.Invalidate()
			analysis, err := engine.Run(ctx, req)
			if err != nil {
				zap.L().Error("watch pass failed", zap.Error(err))
				return
			}
			recs := recommend.Build(analysis.Records, req.Mode, cfg.Strategy.ThresholdPct, analysis.Rates.Rates)

			zap.L().Info("watch pass complete",
				zap.String("mode", string(req.Mode)),
				zap.Int("records", len(analysis.Records)),
				zap.Float64("total_loss", analysis.KPI.TotalLoss),
				zap.Float64("total_surplus", analysis.KPI.TotalSurplus),
				zap.Int("recommendations", len(recs)),
				zap.String("rate_status", string(analysis.Rates.Status)),
			)

			if st == nil {
				return
			}
			run, err := st.CreateRun(ctx, model.AnalysisRun{
				Mode:  req.Mode,
				Hotel: req.Hotel,
				From:  formatDate(req.From),
				To:    formatDate(req.To),
			})
			if err != nil {
				zap.L().Error("persist watch run failed", zap.Error(err))
				return
			}
			if err := st.UpdateRunSummary(ctx, run.ID, buildRunSummary(analysis, len(recs))); err != nil {
				zap.L().Error("persist watch summary failed", zap.String("run_id", run.ID), zap.Error(err))
			}
		}

		sched := cron.New()
		if _, err := sched.AddFunc(cfg.Watch.Schedule, runPass); err != nil {
			return eris.Wrapf(err, "invalid watch schedule %q", cfg.Watch.Schedule)
		}
		sched.Start()
		defer sched.Stop()

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return eris.Wrap(err, "create file watcher")
		}
		defer watcher.Close() //nolint:errcheck

		// Watch each database's directory: scrapers replace the files
		// wholesale, and a watch on the file itself breaks on rename.
		watched := make(map[string]bool)
		dirs := make(map[string]bool)
		for _, p := range market.Paths(cfg.Markets) {
			abs, err := filepath.Abs(p)
			if err != nil {
				continue
			}
			watched[abs] = true
			dirs[filepath.Dir(abs)] = true
		}
		for dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				zap.L().Warn("watch directory failed", zap.String("dir", dir), zap.Error(err))
			}
		}

		zap.L().Info("watch started",
			zap.String("schedule", cfg.Watch.Schedule),
			zap.Int("databases", len(watched)),
		)
		runPass()

		// SQLite commits land as event bursts; a short settle window
		// collapses each burst into one pass.
		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return nil
			case event := <-watcher.Events:
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if !isMarketDB(watched, event.Name) {
					continue
				}
				settle = time.After(2 * time.Second)
			case <-settle:
				settle = nil
				zap.L().Info("market database changed, re-running analysis")
				runPass()
			case err := <-watcher.Errors:
				zap.L().Warn("file watcher error", zap.Error(err))
			}
		}
	},
}

func init() {
	addFilterFlags(watchCmd)
	watchCmd.Flags().Bool("save", false, "persist each pass to the run store")
	rootCmd.AddCommand(watchCmd)
}

// isMarketDB reports whether an event path refers to one of the watched
// databases, including their WAL and journal sidecars.
func isMarketDB(watched map[string]bool, name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if watched[abs] {
		return true
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if watched[strings.TrimSuffix(abs, suffix)] {
			return true
		}
	}
	return false
}
