// Package health classifies scraper outcome notes and aggregates success
// rates. It reads raw loader output, not the merged record set, so the
// report reflects every scrape attempt including rows the merge drops.
package health

import (
	"strings"

	"github.com/peakstay/parity-cli/internal/market"
	"github.com/peakstay/parity-cli/internal/model"
)

// successNotes are the notes the scrapers emit when a price was extracted.
var successNotes = map[string]bool{
	"our_lowest_label":          true,
	"min_from_list":             true,
	"fallback_top_main_block":   true,
	"en_dusuk_fiyatimiz_etiketi": true,
	"min_from_main_block":       true,
	"niedrigster_preis_etikett": true,
}

// failureNotes are the notes meaning the scrape attempt yielded nothing.
var failureNotes = map[string]bool{
	"CRASH_OR_NOT_FOUND":      true,
	"CRASH_OR_TIMEOUT":        true,
	"main_block_id_timeout":   true,
	"main_block_id_not_found": true,
	"main_block_find_error":   true,
	"not_found":               true,
	"Unknown":                 true,
	model.NoteUnknown:         true,
}

// mainBlockMarker marks variants of the main-price-block extraction path.
// Notes containing it count as Success even when not in the exact list.
const mainBlockMarker = "min_from_main_block"

// Classify maps a source note to its category. The mapping is a pure
// function of the note: the substring fallback is re-evaluated on every
// call rather than growing the success list, so classification never
// depends on call order.
func Classify(note string) model.HealthCategory {
	if successNotes[note] {
		return model.HealthSuccess
	}
	if failureNotes[note] {
		return model.HealthFailure
	}
	if strings.Contains(note, mainBlockMarker) {
		return model.HealthSuccess
	}
	return model.HealthOther
}

// Records classifies every observation in the snapshot.
func Records(snap *market.Snapshot) []model.HealthRecord {
	var out []model.HealthRecord
	for _, records := range snap.Records {
		for _, obs := range records.Observations {
			note := obs.SourceNote
			if note == "" {
				note = model.NoteUnknown
			}
			out = append(out, model.HealthRecord{
				Hotel:      obs.Hotel,
				Checkin:    obs.Checkin,
				Market:     records.Market,
				SourceNote: note,
				Category:   Classify(note),
			})
		}
	}
	return out
}

// MarketHealth is one market's attempt/failure tally.
type MarketHealth struct {
	Market      model.Market `json:"market"`
	Total       int          `json:"total"`
	Failures    int          `json:"failures"`
	SuccessRate float64      `json:"success_rate"` // (total − failures) / total × 100
}

// Report aggregates classification results overall and per market.
type Report struct {
	Total       int                              `json:"total"`
	Successes   int                              `json:"successes"`
	Failures    int                              `json:"failures"`
	Others      int                              `json:"others"`
	SuccessRate float64                          `json:"success_rate"` // successes / total × 100
	Markets     [model.NumMarkets]MarketHealth   `json:"markets"`
	NoteCounts  map[string]int                   `json:"note_counts"`
}

// Summarize builds the health report from classified records.
func Summarize(records []model.HealthRecord) Report {
	report := Report{NoteCounts: make(map[string]int)}
	for _, m := range model.AllMarkets {
		report.Markets[m].Market = m
	}

	for _, rec := range records {
		report.Total++
		report.NoteCounts[rec.SourceNote]++
		mh := &report.Markets[rec.Market]
		mh.Total++

		switch rec.Category {
		case model.HealthSuccess:
			report.Successes++
		case model.HealthFailure:
			report.Failures++
			mh.Failures++
		default:
			report.Others++
		}
	}

	if report.Total > 0 {
		report.SuccessRate = float64(report.Successes) / float64(report.Total) * 100
	}
	for i := range report.Markets {
		mh := &report.Markets[i]
		if mh.Total > 0 {
			mh.SuccessRate = float64(mh.Total-mh.Failures) / float64(mh.Total) * 100
		}
	}
	return report
}
