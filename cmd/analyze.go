package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peakstay/parity-cli/internal/export"
	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/pipeline"
	"github.com/peakstay/parity-cli/internal/recommend"
	"github.com/peakstay/parity-cli/internal/store"
	"github.com/peakstay/parity-cli/internal/strategy"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Reconcile the four markets and report price deviations",
	Long:  "Loads the per-market scrape databases, aligns them on (hotel, check-in), normalizes prices into TRY, and reports each market's deviation from the strategy target.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		req, err := parseRequest(cmd)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")
		limit, _ := cmd.Flags().GetInt("limit")
		save, _ := cmd.Flags().GetBool("save")

		engine := initEngine()

		var st store.Store
		var run *model.AnalysisRun
		if save {
			if st, err = initStore(ctx); err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err = st.CreateRun(ctx, model.AnalysisRun{
				Mode:  req.Mode,
				Hotel: req.Hotel,
				From:  formatDate(req.From),
				To:    formatDate(req.To),
			})
			if err != nil {
				return err
			}
		}

		analysis, err := engine.Run(ctx, req)
		if err != nil {
			if run != nil {
				recordRunFailure(cmd, st, run.ID, err)
			}
			return err
		}
		recCount := len(recommend.Build(analysis.Records, req.Mode, cfg.Strategy.ThresholdPct, analysis.Rates.Rates))

		if run != nil {
			if err := st.UpdateRunSummary(ctx, run.ID, buildRunSummary(analysis, recCount)); err != nil {
				return err
			}
		}

		printWarnings(analysis.Warnings)

		w, closeOut, err := openOutput(outPath)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		switch format {
		case "table":
			writeAnalysisTable(w, analysis, limit)
		case "csv":
			if err := export.WriteCSV(w, analysis.Records); err != nil {
				return err
			}
		case "yaml":
			if err := writeYAML(w, analysisSummary(analysis, recCount)); err != nil {
				return err
			}
		default:
			return eris.Errorf("unknown format %q (want table, csv, or yaml)", format)
		}

		if run != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "saved as run %s\n", truncateID(run.ID))
		}
		return nil
	},
}

func init() {
	addFilterFlags(analyzeCmd)
	analyzeCmd.Flags().String("format", "table", "output format: table, csv, or yaml")
	analyzeCmd.Flags().String("output", "", "write output to file instead of stdout")
	analyzeCmd.Flags().Int("limit", 20, "max records in the table view (0 = all)")
	analyzeCmd.Flags().Bool("save", false, "persist the run summary to the run store")
	rootCmd.AddCommand(analyzeCmd)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// recordRunFailure marks a saved run failed; the analysis error itself is
// still returned to the caller.
func recordRunFailure(cmd *cobra.Command, st store.Store, runID string, runErr error) {
	summary := &model.RunSummary{Error: runErr.Error()}
	if err := st.UpdateRunSummary(cmd.Context(), runID, summary); err != nil {
		zap.L().Error("persist run failure failed", zap.String("run_id", runID), zap.Error(err))
	}
}

// buildRunSummary condenses an analysis into the persisted run outcome.
func buildRunSummary(a *pipeline.Analysis, recommendations int) *model.RunSummary {
	return &model.RunSummary{
		Records:         len(a.Records),
		Hotels:          len(a.Hotels),
		Days:            a.KPI.Days,
		TotalLoss:       a.KPI.TotalLoss,
		TotalSurplus:    a.KPI.TotalSurplus,
		Recommendations: recommendations,
		RateStatus:      string(a.Rates.Status),
		Warnings:        a.Warnings,
	}
}

// analysisSummary is the YAML report shape: the aggregate picture without
// the full record table.
func analysisSummary(a *pipeline.Analysis, recommendations int) map[string]any {
	return map[string]any{
		"mode":             string(a.KPI.Mode),
		"target_basis":     a.KPI.Mode.Description(),
		"records":          len(a.Records),
		"hotels":           a.Hotels,
		"days":             a.KPI.Days,
		"rates":            a.Rates,
		"kpi":              a.KPI,
		"recommendations":  recommendations,
		"weekday_impact":   strategy.ByWeekday(a.Records, a.KPI.Mode),
		"deviation_matrix": strategy.DeviationMatrix(a.Records, a.KPI.Mode),
		"warnings":         a.Warnings,
	}
}

// writeAnalysisTable renders the KPI block and the per-record deviation table.
func writeAnalysisTable(out io.Writer, a *pipeline.Analysis, limit int) {
	fmt.Fprintf(out, "Strategy: %s (target = %s)\n", a.KPI.Mode, a.KPI.Mode.Description())
	fmt.Fprintf(out, "Rates:    %s\n", a.Rates.Source)
	fmt.Fprintf(out, "Records:  %d across %d hotels, %d days\n\n", len(a.Records), len(a.Hotels), a.KPI.Days)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MARKET\tLOSS\tSURPLUS\tBELOW\tABOVE")
	for _, kpi := range a.KPI.Markets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			kpi.Market.DisplayName(),
			formatMoney(kpi.Loss, model.CommonCurrency),
			formatMoney(kpi.Surplus, model.CommonCurrency),
			kpi.BelowTarget,
			kpi.AboveTarget,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal loss:    %s\n", formatMoney(a.KPI.TotalLoss, model.CommonCurrency))
	fmt.Fprintf(out, "Total surplus: %s\n", formatMoney(a.KPI.TotalSurplus, model.CommonCurrency))
	fmt.Fprintf(out, "Daily impact:  %s  (30d %s, 365d %s)\n",
		formatMoney(a.KPI.DailyImpact, model.CommonCurrency),
		formatMoney(a.KPI.MonthlyProjection(), model.CommonCurrency),
		formatMoney(a.KPI.YearlyProjection(), model.CommonCurrency),
	)

	if len(a.Records) == 0 {
		return
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WEEKDAY\tMEAN IMPACT\tRECORDS")
	for _, impact := range strategy.ByWeekday(a.Records, a.KPI.Mode) {
		fmt.Fprintf(w, "%s\t%s\t%d\n",
			impact.Weekday, formatMoney(impact.Mean, model.CommonCurrency), impact.Count)
	}
	w.Flush()

	records := a.Records
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HOTEL\tCHECKIN\tTR%\tUS%\tDE%\tUK%\tTARGET")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%+.1f\t%+.1f\t%+.1f\t%+.1f\t%s\n",
			rec.Hotel,
			rec.Checkin.Format("2006-01-02"),
			rec.Strategy.DeviationPct[model.MarketTR],
			rec.Strategy.DeviationPct[model.MarketUS],
			rec.Strategy.DeviationPct[model.MarketDE],
			rec.Strategy.DeviationPct[model.MarketUK],
			formatMoney(rec.Strategy.Target, model.CommonCurrency),
		)
	}
	w.Flush()

	if len(records) < len(a.Records) {
		fmt.Fprintf(out, "... showing %d of %d records (use --limit 0 for all)\n", len(records), len(a.Records))
	}
}
