package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/peakstay/parity-cli/internal/forecast"
	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/pipeline"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast a hotel's mean price over the next week",
	Long:  "Fits a trend-plus-weekday model to one hotel's historical market mean price (in TRY) and extends it past the last observed check-in date.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		hotel, _ := cmd.Flags().GetString("hotel")
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = cfg.Forecast.HorizonDays
		}

		mode, err := model.ParseStrategyMode(cfg.Strategy.Mode)
		if err != nil {
			return err
		}

		analysis, err := initEngine().Run(ctx, pipeline.Request{Mode: mode, Hotel: hotel})
		if err != nil {
			return err
		}
		printWarnings(analysis.Warnings)

		series := forecast.SeriesFrom(analysis.Records, hotel)

		trend := forecast.NewSeasonalTrend()
		if cfg.Forecast.MinPoints > 0 {
			trend.MinPoints = cfg.Forecast.MinPoints
		}

		preds, err := trend.Forecast(series, days)
		if eris.Is(err, forecast.ErrInsufficientData) {
			fmt.Fprintf(cmd.OutOrStdout(), "Forecast declined for %q: %d days of price history, need %d.\n",
				hotel, len(series), trend.MinPoints)
			return nil
		}
		if err != nil {
			return err
		}

		var lastObserved time.Time
		if len(series) > 0 {
			for _, p := range series {
				if p.Date.After(lastObserved) {
					lastObserved = p.Date
				}
			}
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "table":
			writeForecastTable(cmd.OutOrStdout(), hotel, preds, lastObserved)
		case "yaml":
			return writeYAML(cmd.OutOrStdout(), map[string]any{
				"hotel":       hotel,
				"horizon":     days,
				"predictions": preds,
			})
		default:
			return eris.Errorf("unknown format %q (want table or yaml)", format)
		}
		return nil
	},
}

func init() {
	forecastCmd.Flags().String("hotel", "", "hotel to forecast (required)")
	forecastCmd.Flags().Int("days", 0, "forecast horizon in days (default from config)")
	forecastCmd.Flags().String("format", "table", "output format: table or yaml")
	_ = forecastCmd.MarkFlagRequired("hotel")
	rootCmd.AddCommand(forecastCmd)
}

func writeForecastTable(out io.Writer, hotel string, preds []forecast.Prediction, lastObserved time.Time) {
	fmt.Fprintf(out, "Mean price forecast for %s (%s)\n\n", hotel, model.CommonCurrency)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPREDICTED\tLOW\tHIGH\t")
	for _, p := range preds {
		marker := ""
		if p.Date.After(lastObserved) {
			marker = "forecast"
		}
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%s\n",
			p.Date.Format("2006-01-02"), p.Value, p.Lower, p.Upper, marker)
	}
	w.Flush()
}
