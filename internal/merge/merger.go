// Package merge aligns the four per-market observation sets into one
// record set keyed by (hotel, checkin).
package merge

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/peakstay/parity-cli/internal/market"
	"github.com/peakstay/parity-cli/internal/model"
)

// dateLayouts are the check-in formats the scrapers emit.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
}

type recordKey struct {
	hotel   string
	checkin time.Time
}

// Records outer-joins the snapshot's four markets on (hotel, checkin).
// A key present in any one market appears in the output; the other markets
// fill with zero-valued quotes so downstream arithmetic never null-checks.
// Rows whose checkin fails to parse are dropped: they can neither join nor
// chart. Output is sorted by hotel, then checkin ascending.
func Records(snap *market.Snapshot) []model.ReconciledRecord {
	index := make(map[recordKey]*model.ReconciledRecord)
	var dropped int

	for _, records := range snap.Records {
		m := records.Market
		for _, obs := range records.Observations {
			checkin, ok := parseCheckin(obs.Checkin)
			if !ok {
				dropped++
				continue
			}

			key := recordKey{hotel: obs.Hotel, checkin: checkin}
			rec, exists := index[key]
			if !exists {
				rec = &model.ReconciledRecord{Hotel: obs.Hotel, Checkin: checkin}
				index[key] = rec
			}
			rec.Quotes[m] = model.MarketQuote{
				Price:      obs.Price,
				Currency:   obs.Currency,
				ScrapedAt:  obs.ScrapedAt,
				SourceNote: obs.SourceNote,
			}
		}
	}

	merged := make([]model.ReconciledRecord, 0, len(index))
	for _, rec := range index {
		merged = append(merged, *rec)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Hotel != merged[j].Hotel {
			return merged[i].Hotel < merged[j].Hotel
		}
		return merged[i].Checkin.Before(merged[j].Checkin)
	})

	if dropped > 0 {
		zap.L().Warn("merge dropped rows with unparsable checkin dates",
			zap.Int("dropped", dropped),
		)
	}
	return merged
}

// parseCheckin parses a raw checkin value against the known layouts.
func parseCheckin(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}

// Filter returns the records matching a hotel selection and inclusive date
// range. Empty hotel means all hotels; zero bounds mean unbounded.
func Filter(records []model.ReconciledRecord, hotel string, from, to time.Time) []model.ReconciledRecord {
	var out []model.ReconciledRecord
	for _, rec := range records {
		if hotel != "" && rec.Hotel != hotel {
			continue
		}
		if !from.IsZero() && rec.Checkin.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Checkin.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Hotels returns the distinct hotel names in record order, deduplicated.
func Hotels(records []model.ReconciledRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		if !seen[rec.Hotel] {
			seen[rec.Hotel] = true
			out = append(out, rec.Hotel)
		}
	}
	return out
}
