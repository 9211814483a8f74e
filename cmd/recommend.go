package main

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank records whose deviation breaches the threshold",
	Long:  "Runs a reconciliation pass and lists the (hotel, check-in) records with at least one market past the deviation threshold, worst first, with a concrete adjustment per flagged market.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		req, err := parseRequest(cmd)
		if err != nil {
			return err
		}

		threshold, _ := cmd.Flags().GetFloat64("threshold")
		if threshold <= 0 {
			return eris.Errorf("threshold must be positive, got %.1f", threshold)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")

		analysis, err := initEngine().Run(ctx, req)
		if err != nil {
			return err
		}
		printWarnings(analysis.Warnings)

		recs := recommend.Build(analysis.Records, req.Mode, threshold, analysis.Rates.Rates)

		switch format {
		case "table":
			writeRecommendations(cmd.OutOrStdout(), recs, req.Mode, threshold, limit)
		case "yaml":
			return writeYAML(cmd.OutOrStdout(), map[string]any{
				"mode":            string(req.Mode),
				"threshold_pct":   threshold,
				"recommendations": recs,
			})
		default:
			return eris.Errorf("unknown format %q (want table or yaml)", format)
		}
		return nil
	},
}

func init() {
	addFilterFlags(recommendCmd)
	recommendCmd.Flags().Float64("threshold", recommend.DefaultThresholdPct, "deviation tolerance in percent")
	recommendCmd.Flags().Int("limit", 10, "max recommendations to display (0 = all)")
	recommendCmd.Flags().String("format", "table", "output format: table or yaml")
	rootCmd.AddCommand(recommendCmd)
}

func writeRecommendations(out io.Writer, recs []model.Recommendation, mode model.StrategyMode, threshold float64, limit int) {
	if len(recs) == 0 {
		fmt.Fprintf(out, "All markets within ±%.1f%% of the %s target. Nothing to adjust.\n", threshold, mode.Description())
		return
	}

	shown := recs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	fmt.Fprintf(out, "%d records breach the %.1f%% threshold under %s:\n\n", len(recs), threshold, mode)
	for i, rec := range shown {
		fmt.Fprintf(out, "%d. %s  %s  (score %.1f)\n", i+1, rec.Hotel, rec.Checkin.Format("2006-01-02"), rec.Score)
		for _, advice := range rec.Advice {
			fmt.Fprintf(out, "   - %s\n", advice.Text)
		}
	}
	if len(shown) < len(recs) {
		fmt.Fprintf(out, "\n... showing %d of %d (use --limit 0 for all)\n", len(shown), len(recs))
	}
}
