package model

import "time"

// RunStatus represents the state of a persisted analysis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// AnalysisRun is one recorded invocation of the reconciliation pipeline.
type AnalysisRun struct {
	ID        string       `json:"id"`
	Mode      StrategyMode `json:"mode"`
	Hotel     string       `json:"hotel,omitempty"` // empty means all hotels
	From      string       `json:"from,omitempty"`  // inclusive date bounds, YYYY-MM-DD
	To        string       `json:"to,omitempty"`
	Status    RunStatus    `json:"status"`
	Summary   *RunSummary  `json:"summary,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RunSummary is the persisted outcome of a run.
type RunSummary struct {
	Records         int      `json:"records"`
	Hotels          int      `json:"hotels"`
	Days            int      `json:"days"`
	TotalLoss       float64  `json:"total_loss"`    // sum of negative deviations, absolute
	TotalSurplus    float64  `json:"total_surplus"` // sum of positive deviations
	Recommendations int      `json:"recommendations"`
	RateStatus      string   `json:"rate_status"`
	Warnings        []string `json:"warnings,omitempty"`
	Error           string   `json:"error,omitempty"`
}
