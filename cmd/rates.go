package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/rates"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the exchange rates used for TRY normalization",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := rates.NewClient(cfg.Rates)

		refresh, _ := cmd.Flags().GetBool("refresh")
		var quote model.RateQuote
		if refresh {
			quote = client.Refresh(cmd.Context())
		} else {
			quote = client.Get(cmd.Context())
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source: %s\n", quote.Source)
		fmt.Fprintf(out, "Status: %s\n\n", quote.Status)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "CURRENCY\t%s PER UNIT\n", model.CommonCurrency)
		for _, m := range model.AllMarkets {
			if m == model.HomeMarket {
				continue
			}
			fmt.Fprintf(w, "%s\t%.2f\n", m.Currency(), quote.Rates.For(m))
		}
		w.Flush()
		return nil
	},
}

func init() {
	ratesCmd.Flags().Bool("refresh", false, "bypass the TTL cache and refetch")
	rootCmd.AddCommand(ratesCmd)
}
