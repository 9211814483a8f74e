// Package export serializes the fully computed analysis table, one row per
// (hotel, checkin) record.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/peakstay/parity-cli/internal/model"
)

// Header returns the flat column layout: the record key, then per market
// the raw price, normalized price, deviation, and deviation percent, then
// the strategy columns.
func Header() []string {
	cols := []string{"hotel", "checkin"}
	for _, m := range model.AllMarkets {
		code := strings.ToLower(m.Code())
		cols = append(cols,
			fmt.Sprintf("%s_price_%s", code, strings.ToLower(m.Currency())),
			fmt.Sprintf("%s_price_%s", code, strings.ToLower(model.CommonCurrency)),
			fmt.Sprintf("%s_deviation", code),
			fmt.Sprintf("%s_deviation_pct", code),
		)
	}
	return append(cols, "target_price", "max_price", "min_price", "mean_price")
}

// Row flattens one analyzed record into Header order.
func Row(rec model.AnalyzedRecord) []string {
	row := []string{rec.Hotel, rec.Checkin.Format("2006-01-02")}
	for _, m := range model.AllMarkets {
		row = append(row,
			formatPrice(rec.Quotes[m].Price),
			formatPrice(rec.Quotes[m].Normalized),
			formatPrice(rec.Strategy.Deviation[m]),
			fmt.Sprintf("%.1f", rec.Strategy.DeviationPct[m]),
		)
	}
	return append(row,
		formatPrice(rec.Strategy.Target),
		formatPrice(rec.Strategy.Max),
		formatPrice(rec.Strategy.Min),
		formatPrice(rec.Strategy.Mean),
	)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// WriteCSV writes the analysis table as delimited text.
func WriteCSV(w io.Writer, records []model.AnalyzedRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header()); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}
	for _, rec := range records {
		if err := cw.Write(Row(rec)); err != nil {
			return eris.Wrapf(err, "export: write CSV row for %s", rec.Hotel)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}
