package forecast

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/strategy"
)

func series(start time.Time, values ...float64) []Point {
	out := make([]Point, 0, len(values))
	for i, v := range values {
		out = append(out, Point{Date: start.AddDate(0, 0, i), Value: v})
	}
	return out
}

var seriesStart = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func TestSeasonalTrend_InsufficientData(t *testing.T) {
	trend := NewSeasonalTrend()

	_, err := trend.Forecast(series(seriesStart, 100, 110, 120), DefaultHorizonDays)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInsufficientData))
}

func TestSeasonalTrend_HorizonExtendsPastLastObservation(t *testing.T) {
	input := series(seriesStart, 100, 102, 104, 106, 108, 110, 112, 114, 116, 118)

	preds, err := NewSeasonalTrend().Forecast(input, 7)
	require.NoError(t, err)

	// Fitted values for every observed day plus the forecast horizon.
	require.Len(t, preds, len(input)+7)

	last := input[len(input)-1].Date
	for i := 0; i < 7; i++ {
		expected := last.AddDate(0, 0, i+1)
		assert.Equal(t, expected, preds[len(input)+i].Date)
	}
}

func TestSeasonalTrend_FollowsLinearTrend(t *testing.T) {
	// Perfectly linear series: the model should reproduce it almost exactly
	// and continue the slope into the horizon.
	input := series(seriesStart, 100, 102, 104, 106, 108, 110, 112, 114, 116, 118, 120, 122, 124, 126)

	preds, err := NewSeasonalTrend().Forecast(input, 7)
	require.NoError(t, err)

	for i, p := range preds[:len(input)] {
		assert.InDelta(t, input[i].Value, p.Value, 0.01, "fitted day %d", i)
	}

	// Day 14 continues at +2/day.
	assert.InDelta(t, 128.0, preds[len(input)].Value, 0.1)
	assert.InDelta(t, 140.0, preds[len(preds)-1].Value, 0.1)
}

func TestSeasonalTrend_BandsWidenIntoHorizon(t *testing.T) {
	// Noisy series so the residual band is nonzero.
	input := series(seriesStart, 100, 120, 95, 130, 105, 125, 98, 122, 101, 128)

	preds, err := NewSeasonalTrend().Forecast(input, 7)
	require.NoError(t, err)

	first := preds[len(input)]
	lastPred := preds[len(preds)-1]

	assert.Less(t, first.Lower, first.Value)
	assert.Greater(t, first.Upper, first.Value)
	assert.Greater(t, lastPred.Upper-lastPred.Lower, first.Upper-first.Lower,
		"band must widen deeper into the horizon")
}

func TestSeasonalTrend_UnsortedInput(t *testing.T) {
	input := series(seriesStart, 100, 102, 104, 106, 108, 110, 112)
	// Shuffle: the forecaster must sort by date itself.
	input[0], input[3] = input[3], input[0]
	input[1], input[5] = input[5], input[1]

	preds, err := NewSeasonalTrend().Forecast(input, 3)
	require.NoError(t, err)
	require.Len(t, preds, 10)
	assert.True(t, preds[0].Date.Before(preds[1].Date))
}

func TestSeriesFrom(t *testing.T) {
	unitRates := model.RateSet{USD: 1, EUR: 1, GBP: 1}

	mk := func(hotel string, d int, price float64) model.AnalyzedRecord {
		rec := model.ReconciledRecord{
			Hotel:   hotel,
			Checkin: time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC),
		}
		rec.Quotes[model.MarketTR] = model.MarketQuote{Price: price, Currency: "TRY"}
		return strategy.ComputeOne(rec, model.StrategyMean, unitRates)
	}

	records := []model.AnalyzedRecord{
		mk("A", 1, 100),
		mk("A", 2, 0), // no observation: excluded from the series
		mk("B", 1, 500),
		mk("A", 3, 120),
	}

	got := SeriesFrom(records, "A")
	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].Value)
	assert.Equal(t, 120.0, got[1].Value)
}
