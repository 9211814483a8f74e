package model

// HealthCategory is the outcome class of one scrape attempt.
type HealthCategory string

const (
	HealthSuccess HealthCategory = "success"
	HealthFailure HealthCategory = "failure"
	HealthOther   HealthCategory = "other"
)

// HealthRecord is one classified scrape outcome. It is built from raw
// loader output, independent of the price merge, so health reporting covers
// observations the merge later drops.
type HealthRecord struct {
	Hotel      string         `json:"hotel"`
	Checkin    string         `json:"checkin"` // raw value; unparsable dates still count here
	Market     Market         `json:"market"`
	SourceNote string         `json:"source_note"`
	Category   HealthCategory `json:"category"`
}
