package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
	// ActiveTargets is derived from the same target read path the
	// pipeline uses.
	ActiveTargets int `json:"active_targets"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// StatsResponse carries dashboard statistics.
type StatsResponse struct {
	TotalJobs     int            `json:"total_jobs"`
	NewToday      int            `json:"new_today"`
	ActiveTargets int            `json:"active_targets"`
	JobsByCompany map[string]int `json:"jobs_by_company"`
	JobsByStatus  map[string]int `json:"jobs_by_status"`
}

// CompanyCount is one entry of the companies listing.
type CompanyCount struct {
	Name     string `json:"name"`
	JobCount int    `json:"job_count"`
}
