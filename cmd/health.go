package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/peakstay/parity-cli/internal/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report scraper success rates per market",
	Long:  "Classifies every scrape attempt's source note as success, failure, or other, and reports overall and per-market rates plus the note distribution.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		snap, err := initEngine().Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		printWarnings(snap.Warnings)

		report := health.Summarize(health.Records(snap))

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "table":
			writeHealthReport(cmd.OutOrStdout(), report)
		case "yaml":
			return writeYAML(cmd.OutOrStdout(), report)
		default:
			return eris.Errorf("unknown format %q (want table or yaml)", format)
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().String("format", "table", "output format: table or yaml")
	rootCmd.AddCommand(healthCmd)
}

func writeHealthReport(out io.Writer, report health.Report) {
	fmt.Fprintf(out, "Scrape attempts: %d (success %d, failure %d, other %d)\n", report.Total, report.Successes, report.Failures, report.Others)
	fmt.Fprintf(out, "Success rate:    %.1f%%\n\n", report.SuccessRate)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MARKET\tATTEMPTS\tFAILURES\tSUCCESS")
	for _, mh := range report.Markets {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\n", mh.Market.DisplayName(), mh.Total, mh.Failures, mh.SuccessRate)
	}
	w.Flush()

	if len(report.NoteCounts) == 0 {
		return
	}

	// Most frequent notes first; ties alphabetical for stable output.
	notes := make([]string, 0, len(report.NoteCounts))
	for note := range report.NoteCounts {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool {
		if report.NoteCounts[notes[i]] != report.NoteCounts[notes[j]] {
			return report.NoteCounts[notes[i]] > report.NoteCounts[notes[j]]
		}
		return notes[i] < notes[j]
	})

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE NOTE\tCOUNT\tCATEGORY")
	for _, note := range notes {
		fmt.Fprintf(w, "%s\t%d\t%s\n", note, report.NoteCounts[note], health.Classify(note))
	}
	w.Flush()
}
