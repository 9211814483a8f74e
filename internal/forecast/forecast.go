// Package forecast defines the price-forecasting boundary: a hotel's
// historical mean-price series goes in, a fitted series plus a fixed future
// horizon comes out. The model behind the interface is replaceable; the
// default is a least-squares trend with weekly seasonality.
package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/peakstay/parity-cli/internal/model"
)

// DefaultHorizonDays is the future window appended past the last observation.
const DefaultHorizonDays = 7

// DefaultMinPoints is the smallest series the forecaster accepts.
const DefaultMinPoints = 7

// ErrInsufficientData means the series is too short to fit a model; the
// caller should surface it as a declined forecast, not a fault.
var ErrInsufficientData = eris.New("forecast: insufficient data")

// Point is one observed (date, mean price) sample. Only positive values
// belong in a series; zero-price days carry no signal.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Prediction is one fitted or forecast value with its confidence band.
type Prediction struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Forecaster fits a daily series and extends it horizonDays past the last
// observation. The returned predictions cover the historical dates too.
type Forecaster interface {
	Forecast(series []Point, horizonDays int) ([]Prediction, error)
}

// SeriesFrom extracts one hotel's mean-price series from analyzed records,
// keeping only days where the market mean is positive.
func SeriesFrom(records []model.AnalyzedRecord, hotel string) []Point {
	var series []Point
	for _, rec := range records {
		if rec.Hotel != hotel || rec.Strategy.Mean <= 0 {
			continue
		}
		series = append(series, Point{Date: rec.Checkin, Value: rec.Strategy.Mean})
	}
	return series
}

// SeasonalTrend is the default model: ordinary least squares on the day
// index plus per-weekday mean offsets, with a ±1.96σ residual band.
type SeasonalTrend struct {
	MinPoints int
}

// NewSeasonalTrend returns the default forecaster.
func NewSeasonalTrend() *SeasonalTrend {
	return &SeasonalTrend{MinPoints: DefaultMinPoints}
}

// Forecast implements Forecaster.
func (s *SeasonalTrend) Forecast(series []Point, horizonDays int) ([]Prediction, error) {
	minPoints := s.MinPoints
	if minPoints <= 0 {
		minPoints = DefaultMinPoints
	}
	if len(series) < minPoints {
		return nil, eris.Wrapf(ErrInsufficientData, "need %d points, have %d", minPoints, len(series))
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	pts := make([]Point, len(series))
	copy(pts, series)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	origin := pts[0].Date
	day := func(t time.Time) float64 {
		return t.Sub(origin).Hours() / 24
	}

	// Trend: least squares of value on day index.
	var n, sumX, sumY, sumXY, sumXX float64
	for _, p := range pts {
		x := day(p.Date)
		n++
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	var slope float64
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n

	// Weekly seasonality: mean residual from the trend per weekday.
	var seasonSum [7]float64
	var seasonCount [7]int
	for _, p := range pts {
		wd := int(p.Date.Weekday())
		seasonSum[wd] += p.Value - (intercept + slope*day(p.Date))
		seasonCount[wd]++
	}
	var season [7]float64
	for i := range season {
		if seasonCount[i] > 0 {
			season[i] = seasonSum[i] / float64(seasonCount[i])
		}
	}

	fitted := func(t time.Time) float64 {
		return intercept + slope*day(t) + season[int(t.Weekday())]
	}

	// Residual spread drives the confidence band.
	var sqErr float64
	for _, p := range pts {
		r := p.Value - fitted(p.Date)
		sqErr += r * r
	}
	sigma := math.Sqrt(sqErr / n)
	band := 1.96 * sigma

	out := make([]Prediction, 0, len(pts)+horizonDays)
	for _, p := range pts {
		v := fitted(p.Date)
		out = append(out, Prediction{Date: p.Date, Value: v, Lower: v - band, Upper: v + band})
	}
	last := pts[len(pts)-1].Date
	for i := 1; i <= horizonDays; i++ {
		d := last.AddDate(0, 0, i)
		v := fitted(d)
		// The band widens slowly past the observed window.
		w := band * (1 + 0.05*float64(i))
		out = append(out, Prediction{Date: d, Value: v, Lower: v - w, Upper: v + w})
	}
	return out, nil
}
