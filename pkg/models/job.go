package models

import "time"

// Job statuses. The pipeline only ever writes StatusNew; everything else is
// assigned through the admin API.
const (
	StatusNew       = "new"
	StatusSaved     = "saved"
	StatusApplied   = "applied"
	StatusInterview = "interview"
	StatusRejected  = "rejected"
	StatusArchived  = "archived"
)

// ValidStatuses lists the statuses accepted by the status-update endpoint.
var ValidStatuses = []string{
	StatusNew, StatusSaved, StatusApplied, StatusInterview, StatusRejected, StatusArchived,
}

// Candidate is an unpersisted job posting produced by the extraction step
// for one target during one run. PostedDate is whatever free-form text the
// extractor emitted; it is never parsed.
type Candidate struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Location   string `json:"location,omitempty"`
	PostedDate string `json:"posted_date,omitempty"`
}

// JobRecord is the persisted form of a candidate once classified as new.
type JobRecord struct {
	ID              string    `json:"id"`
	DedupKey        string    `json:"-"`
	TargetID        string    `json:"target_id"`
	CompanyName     string    `json:"company_name"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Location        string    `json:"location,omitempty"`
	PostedDate      string    `json:"posted_date,omitempty"`
	RoleKeyword     string    `json:"role_keyword,omitempty"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	ReferralContact string    `json:"referral_contact,omitempty"`
	FoundAt         time.Time `json:"found_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateJobStatusRequest is the payload for the job status endpoint.
type UpdateJobStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=new saved applied interview rejected archived"`
	Notes           string `json:"notes,omitempty"`
	ReferralContact string `json:"referral_contact,omitempty"`
}

// JobFilter narrows job listing queries.
type JobFilter struct {
	Company string
	Status  string
	Since   time.Time
	Limit   int
	Offset  int
}
