package model

import "time"

// MarketQuote holds one market's slice of a reconciled record. A missing
// observation leaves the zero value: Price 0, empty note and timestamp.
type MarketQuote struct {
	Price      float64 `json:"price"`      // native currency
	Currency   string  `json:"currency"`
	Normalized float64 `json:"normalized"` // common currency, set by the strategy engine
	ScrapedAt  string  `json:"scraped_at"`
	SourceNote string  `json:"source_note"`
}

// ReconciledRecord aligns all four markets for one (hotel, checkin) key.
// The key set of a merge is the union over all markets; records with fewer
// than four observed prices are valid and carry zeros for the gaps.
type ReconciledRecord struct {
	Hotel   string                  `json:"hotel"`
	Checkin time.Time               `json:"checkin"`
	Quotes  [NumMarkets]MarketQuote `json:"quotes"`
}

// ObservedCount returns how many markets carry a real (nonzero) price.
func (r *ReconciledRecord) ObservedCount() int {
	var n int
	for _, q := range r.Quotes {
		if q.Price > 0 {
			n++
		}
	}
	return n
}
