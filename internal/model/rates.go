package model

import "time"

// RateStatus reports how an exchange-rate set was obtained.
type RateStatus string

const (
	RateStatusLive     RateStatus = "live"
	RateStatusFallback RateStatus = "fallback"
)

// RateSet holds one exchange rate per foreign currency, expressed as units
// of the common currency per one unit of the foreign currency. The home
// market needs no conversion.
type RateSet struct {
	USD float64 `json:"usd"`
	EUR float64 `json:"eur"`
	GBP float64 `json:"gbp"`
}

// For returns the conversion rate for a market's native currency into the
// common currency. The home market's rate is 1.
func (r RateSet) For(m Market) float64 {
	switch m {
	case MarketUS:
		return r.USD
	case MarketDE:
		return r.EUR
	case MarketUK:
		return r.GBP
	default:
		return 1
	}
}

// RateQuote is the structured result of a rate lookup: the rates themselves
// plus where they came from, so the presentation layer never reads shared
// fetch state.
type RateQuote struct {
	Rates     RateSet    `json:"rates"`
	Status    RateStatus `json:"status"`
	Source    string     `json:"source"` // e.g. "live rates (2026-08-28)" or "static fallback"
	FetchedAt time.Time  `json:"fetched_at"`
}
