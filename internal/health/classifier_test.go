package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstay/parity-cli/internal/market"
	"github.com/peakstay/parity-cli/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		note string
		want model.HealthCategory
	}{
		{"our_lowest_label", model.HealthSuccess},
		{"min_from_list", model.HealthSuccess},
		{"en_dusuk_fiyatimiz_etiketi", model.HealthSuccess},
		{"niedrigster_preis_etikett", model.HealthSuccess},
		{"CRASH_OR_TIMEOUT", model.HealthFailure},
		{"CRASH_OR_NOT_FOUND", model.HealthFailure},
		{"main_block_id_timeout", model.HealthFailure},
		{"not_found", model.HealthFailure},
		{"N/A", model.HealthFailure},
		{"Unknown", model.HealthFailure},
		{"xyz", model.HealthOther},
		{"", model.HealthOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.note), "note %q", tt.note)
	}
}

func TestClassify_MainBlockVariants(t *testing.T) {
	// Variants of the main-block extraction path count as success even
	// when not in the exact list.
	assert.Equal(t, model.HealthSuccess, Classify("min_from_main_block"))
	assert.Equal(t, model.HealthSuccess, Classify("min_from_main_block_v2"))
	assert.Equal(t, model.HealthSuccess, Classify("retry_min_from_main_block"))
}

func TestClassify_IsStateless(t *testing.T) {
	// Classifying a variant must not influence later classifications.
	variant := "min_from_main_block_v3"
	other := "some_new_note"

	first := Classify(other)
	Classify(variant)
	second := Classify(other)

	assert.Equal(t, model.HealthOther, first)
	assert.Equal(t, first, second)
}

func testSnapshot() *market.Snapshot {
	snap := &market.Snapshot{}
	for _, m := range model.AllMarkets {
		snap.Records[m] = model.MarketRecords{Market: m}
	}
	snap.Records[model.MarketTR].Observations = []model.PriceObservation{
		{Hotel: "A", Checkin: "2026-05-01", Price: 3000, SourceNote: "our_lowest_label"},
		{Hotel: "B", Checkin: "2026-05-01", Price: 2800, SourceNote: "min_from_list"},
	}
	snap.Records[model.MarketUS].Observations = []model.PriceObservation{
		{Hotel: "A", Checkin: "2026-05-01", SourceNote: "CRASH_OR_TIMEOUT"},
	}
	snap.Records[model.MarketDE].Observations = []model.PriceObservation{
		{Hotel: "A", Checkin: "2026-05-01", Price: 80, SourceNote: "weird_new_path"},
	}
	return snap
}

func TestRecords_ClassifiesEveryObservation(t *testing.T) {
	records := Records(testSnapshot())

	require.Len(t, records, 4)
	assert.Equal(t, model.HealthSuccess, records[0].Category)
	assert.Equal(t, model.HealthFailure, records[2].Category)
	assert.Equal(t, model.HealthOther, records[3].Category)
}

func TestRecords_EmptyNoteCountsAsUnknown(t *testing.T) {
	snap := &market.Snapshot{}
	for _, m := range model.AllMarkets {
		snap.Records[m] = model.MarketRecords{Market: m}
	}
	snap.Records[model.MarketUK].Observations = []model.PriceObservation{
		{Hotel: "A", Checkin: "2026-05-01"},
	}

	records := Records(snap)
	require.Len(t, records, 1)
	assert.Equal(t, model.NoteUnknown, records[0].SourceNote)
	assert.Equal(t, model.HealthFailure, records[0].Category)
}

func TestSummarize(t *testing.T) {
	report := Summarize(Records(testSnapshot()))

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Successes)
	assert.Equal(t, 1, report.Failures)
	assert.Equal(t, 1, report.Others)
	assert.InDelta(t, 50.0, report.SuccessRate, 0.01)

	// Per-market rate counts non-failures, so "other" notes do not hurt it.
	tr := report.Markets[model.MarketTR]
	assert.Equal(t, 2, tr.Total)
	assert.InDelta(t, 100.0, tr.SuccessRate, 0.01)

	us := report.Markets[model.MarketUS]
	assert.Equal(t, 1, us.Failures)
	assert.InDelta(t, 0.0, us.SuccessRate, 0.01)

	de := report.Markets[model.MarketDE]
	assert.InDelta(t, 100.0, de.SuccessRate, 0.01)

	assert.Equal(t, 1, report.NoteCounts["CRASH_OR_TIMEOUT"])
	assert.Equal(t, 1, report.NoteCounts["weird_new_path"])
}

func TestSummarize_Empty(t *testing.T) {
	report := Summarize(nil)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0.0, report.SuccessRate)
}
