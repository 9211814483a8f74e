package model

// NoteUnknown is the sentinel source note recorded when a market source
// carries no source_note column for an observation.
const NoteUnknown = "N/A"

// PriceObservation is one scraped data point for one hotel, check-in date,
// and market. Observations are immutable once loaded; a Price of 0 means
// "no observation", never a real price.
type PriceObservation struct {
	Hotel      string  `json:"hotel"`
	Checkin    string  `json:"checkin"` // raw scraper value; parsed during merge
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	ScrapedAt  string  `json:"scraped_at"`
	SourceNote string  `json:"source_note"`
}

// MarketRecords is the raw output of one market loader.
type MarketRecords struct {
	Market       Market             `json:"market"`
	Observations []PriceObservation `json:"observations"`
}
