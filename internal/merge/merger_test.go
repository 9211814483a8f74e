package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstay/parity-cli/internal/market"
	"github.com/peakstay/parity-cli/internal/model"
)

func snapshot(obs map[model.Market][]model.PriceObservation) *market.Snapshot {
	snap := &market.Snapshot{}
	for _, m := range model.AllMarkets {
		snap.Records[m] = model.MarketRecords{Market: m, Observations: obs[m]}
	}
	return snap
}

func day(d int) time.Time {
	return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestRecords_OuterJoin(t *testing.T) {
	snap := snapshot(map[model.Market][]model.PriceObservation{
		model.MarketTR: {
			{Hotel: "Grand Plaza", Checkin: "2026-05-01", Price: 3000, Currency: "TRY"},
			{Hotel: "Grand Plaza", Checkin: "2026-05-02", Price: 3100, Currency: "TRY"},
		},
		model.MarketUS: {
			{Hotel: "Grand Plaza", Checkin: "2026-05-01", Price: 85, Currency: "USD"},
		},
		model.MarketUK: {
			// A key no other market has still produces a record.
			{Hotel: "Seaside Inn", Checkin: "2026-05-01", Price: 70, Currency: "GBP"},
		},
	})

	records := Records(snap)
	require.Len(t, records, 3)

	// Sorted by hotel, then checkin.
	assert.Equal(t, "Grand Plaza", records[0].Hotel)
	assert.Equal(t, day(1), records[0].Checkin)
	assert.Equal(t, "Grand Plaza", records[1].Hotel)
	assert.Equal(t, day(2), records[1].Checkin)
	assert.Equal(t, "Seaside Inn", records[2].Hotel)

	// Both observed markets land on the same record.
	assert.Equal(t, 3000.0, records[0].Quotes[model.MarketTR].Price)
	assert.Equal(t, 85.0, records[0].Quotes[model.MarketUS].Price)

	// Markets without an observation fill with the zero quote.
	assert.Equal(t, 0.0, records[0].Quotes[model.MarketDE].Price)
	assert.Equal(t, 0.0, records[2].Quotes[model.MarketTR].Price)
	assert.Equal(t, 70.0, records[2].Quotes[model.MarketUK].Price)
}

func TestRecords_DateLayouts(t *testing.T) {
	snap := snapshot(map[model.Market][]model.PriceObservation{
		model.MarketTR: {{Hotel: "A", Checkin: "2026-05-01", Price: 1}},
		model.MarketUS: {{Hotel: "A", Checkin: "2026-05-01 00:00:00", Price: 2}},
		model.MarketDE: {{Hotel: "A", Checkin: "01.05.2026", Price: 3}},
		model.MarketUK: {{Hotel: "A", Checkin: "2026-05-01T00:00:00Z", Price: 4}},
	})

	records := Records(snap)

	// All four spellings of the same date join to one record.
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].ObservedCount())
}

func TestRecords_DropsUnparsableDates(t *testing.T) {
	snap := snapshot(map[model.Market][]model.PriceObservation{
		model.MarketTR: {
			{Hotel: "A", Checkin: "2026-05-01", Price: 1},
			{Hotel: "A", Checkin: "not-a-date", Price: 2},
			{Hotel: "A", Checkin: "", Price: 3},
		},
	})

	records := Records(snap)
	require.Len(t, records, 1)
	assert.Equal(t, day(1), records[0].Checkin)
}

func TestFilter(t *testing.T) {
	records := []model.ReconciledRecord{
		{Hotel: "A", Checkin: day(1)},
		{Hotel: "A", Checkin: day(5)},
		{Hotel: "B", Checkin: day(3)},
	}

	assert.Len(t, Filter(records, "", time.Time{}, time.Time{}), 3)
	assert.Len(t, Filter(records, "A", time.Time{}, time.Time{}), 2)
	assert.Len(t, Filter(records, "C", time.Time{}, time.Time{}), 0)

	// Bounds are inclusive.
	got := Filter(records, "", day(3), day(5))
	require.Len(t, got, 2)
	assert.Equal(t, day(5), got[0].Checkin)
	assert.Equal(t, day(3), got[1].Checkin)
}

func TestHotels(t *testing.T) {
	records := []model.ReconciledRecord{
		{Hotel: "A", Checkin: day(1)},
		{Hotel: "A", Checkin: day(2)},
		{Hotel: "B", Checkin: day(1)},
	}
	assert.Equal(t, []string{"A", "B"}, Hotels(records))
}
