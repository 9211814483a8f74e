package strategy

import (
	"time"

	"github.com/peakstay/parity-cli/internal/model"
)

// MarketKPI aggregates one market's deviations across the record set.
type MarketKPI struct {
	Market       model.Market `json:"market"`
	Loss         float64      `json:"loss"`          // |sum of negative deviations|
	Surplus      float64      `json:"surplus"`       // sum of positive deviations
	BelowTarget  int          `json:"below_target"`  // records priced under target
	AboveTarget  int          `json:"above_target"`  // records priced over target
}

// KPIReport is the aggregate revenue picture for one strategy pass.
// Under MAX the loss side is the headline (underpriced bookings); under MIN
// and MEAN the surplus side is (bookings priced above the reference).
type KPIReport struct {
	Mode         model.StrategyMode           `json:"mode"`
	Markets      [model.NumMarkets]MarketKPI  `json:"markets"`
	TotalLoss    float64                      `json:"total_loss"`
	TotalSurplus float64                      `json:"total_surplus"`
	FlaggedCount int                          `json:"flagged_count"` // records counted on the mode's headline side
	Records      int                          `json:"records"`
	Days         int                          `json:"days"`          // distinct check-in dates
	DailyImpact  float64                      `json:"daily_impact"`  // headline total / days
}

// Aggregate builds the KPI report over analyzed records.
func Aggregate(records []model.AnalyzedRecord, mode model.StrategyMode) KPIReport {
	report := KPIReport{Mode: mode, Records: len(records)}
	days := make(map[time.Time]bool)

	for _, rec := range records {
		days[rec.Checkin] = true
		for _, m := range model.AllMarkets {
			kpi := &report.Markets[m]
			kpi.Market = m
			d := rec.Strategy.Deviation[m]
			switch {
			case d < 0:
				kpi.Loss += -d
				kpi.BelowTarget++
			case d > 0:
				kpi.Surplus += d
				kpi.AboveTarget++
			}
		}
	}

	for _, kpi := range report.Markets {
		report.TotalLoss += kpi.Loss
		report.TotalSurplus += kpi.Surplus
		if mode == model.StrategyMax {
			report.FlaggedCount += kpi.BelowTarget
		} else {
			report.FlaggedCount += kpi.AboveTarget
		}
	}

	report.Days = len(days)
	if report.Days > 0 {
		switch mode {
		case model.StrategyMax:
			report.DailyImpact = report.TotalLoss / float64(report.Days)
		case model.StrategyMin:
			report.DailyImpact = report.TotalSurplus / float64(report.Days)
		default:
			report.DailyImpact = (report.TotalSurplus - report.TotalLoss) / float64(report.Days)
		}
	}
	return report
}

// MonthlyProjection extrapolates the daily impact over 30 days.
func (r KPIReport) MonthlyProjection() float64 {
	return r.DailyImpact * 30
}

// YearlyProjection extrapolates the daily impact over 365 days.
func (r KPIReport) YearlyProjection() float64 {
	return r.DailyImpact * 365
}

// aggregateDeviation is the mode-signed per-record total: under MAX the sum
// of |negative deviations|, otherwise the sum of positive deviations.
func aggregateDeviation(rec model.AnalyzedRecord, mode model.StrategyMode) float64 {
	var total float64
	for _, m := range model.AllMarkets {
		d := rec.Strategy.Deviation[m]
		if mode == model.StrategyMax {
			if d < 0 {
				total += -d
			}
		} else if d > 0 {
			total += d
		}
	}
	return total
}

// DeviationCell is one (hotel, checkin) aggregate deviation, the heatmap feed.
type DeviationCell struct {
	Hotel   string    `json:"hotel"`
	Checkin time.Time `json:"checkin"`
	Value   float64   `json:"value"`
}

// DeviationMatrix returns the per-record aggregate deviations in record order.
func DeviationMatrix(records []model.AnalyzedRecord, mode model.StrategyMode) []DeviationCell {
	cells := make([]DeviationCell, 0, len(records))
	for _, rec := range records {
		cells = append(cells, DeviationCell{
			Hotel:   rec.Hotel,
			Checkin: rec.Checkin,
			Value:   aggregateDeviation(rec, mode),
		})
	}
	return cells
}

// WeekdayImpact is the mean aggregate deviation for one weekday, computed
// over records with a nonzero aggregate only.
type WeekdayImpact struct {
	Weekday time.Weekday `json:"weekday"`
	Mean    float64      `json:"mean"`
	Count   int          `json:"count"`
}

// ByWeekday aggregates deviations by check-in weekday, Monday first.
func ByWeekday(records []model.AnalyzedRecord, mode model.StrategyMode) []WeekdayImpact {
	var sums [7]float64
	var counts [7]int
	for _, rec := range records {
		total := aggregateDeviation(rec, mode)
		if total <= 0 {
			continue
		}
		wd := int(rec.Checkin.Weekday())
		sums[wd] += total
		counts[wd]++
	}

	out := make([]WeekdayImpact, 0, 7)
	for i := 1; i <= 7; i++ { // Monday..Sunday
		wd := time.Weekday(i % 7)
		impact := WeekdayImpact{Weekday: wd, Count: counts[wd]}
		if counts[wd] > 0 {
			impact.Mean = sums[wd] / float64(counts[wd])
		}
		out = append(out, impact)
	}
	return out
}
