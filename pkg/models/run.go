package models

import "time"

// Target pipeline statuses reported in the run summary.
const (
	OutcomeDone   = "done"
	OutcomeFailed = "failed"
)

// TargetOutcome is the per-target result of one pipeline run.
type TargetOutcome struct {
	TargetID    string `json:"target_id"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"`
	NewJobs     int    `json:"new_jobs"`
	// ErrorCategory is one of fetch_failed, extraction_failed or
	// store_unavailable when Status is failed.
	ErrorCategory string `json:"error_category,omitempty"`
	Error         string `json:"error,omitempty"`
	// ChannelErrors lists notification channels that failed delivery for
	// this target's batch. Channel failures do not fail the target.
	ChannelErrors []string `json:"channel_errors,omitempty"`
}

// RunSummary is the aggregated result of one orchestrator invocation.
// It is returned to the trigger caller and logged, never persisted.
type RunSummary struct {
	Status         string          `json:"status"`
	TargetsChecked int             `json:"targets_checked"`
	TotalNewJobs   int             `json:"total_new_jobs"`
	PerTarget      []TargetOutcome `json:"per_target"`
	Errors         []string        `json:"errors"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	Duration       time.Duration   `json:"duration"`
}
