package model

import "time"

// PriceDirection says which way a market's price must move toward target.
type PriceDirection string

const (
	DirectionIncrease PriceDirection = "increase"
	DirectionDecrease PriceDirection = "decrease"
)

// MarketAdvice is one market's suggested adjustment on a flagged record.
// Prices are in the market's native currency.
type MarketAdvice struct {
	Market       Market         `json:"market"`
	Direction    PriceDirection `json:"direction"`
	Currency     string         `json:"currency"`
	CurrentPrice float64        `json:"current_price"`
	TargetPrice  float64        `json:"target_price"`
	Delta        float64        `json:"delta"`     // absolute change, always positive
	DeltaPct     float64        `json:"delta_pct"` // |deviation percent|
	Text         string         `json:"text"`      // rendered suggestion
}

// Recommendation groups the flagged markets of one record with the record's
// aggregate deviation score. Exists only for the current analysis pass.
type Recommendation struct {
	Hotel   string         `json:"hotel"`
	Checkin time.Time      `json:"checkin"`
	Score   float64        `json:"score"` // sum of |deviation %| over flagged markets
	Advice  []MarketAdvice `json:"advice"`
}
