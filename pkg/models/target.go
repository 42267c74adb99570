package models

import "time"

// Fetch strategies a target may request. Default is plain HTTP; firecrawl
// routes the fetch through the Firecrawl API for JS-heavy career pages.
const (
	StrategyDefault   = "default"
	StrategyFirecrawl = "firecrawl"
)

// Target is a company career page under surveillance.
type Target struct {
	ID             string    `json:"id"`
	CompanyName    string    `json:"company_name"`
	CareersURL     string    `json:"careers_url"`
	RoleKeyword    string    `json:"role_keyword"`
	Active         bool      `json:"active"`
	ScrapeStrategy string    `json:"scrape_strategy,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateTargetRequest is the payload for creating or fully updating a target.
type CreateTargetRequest struct {
	CompanyName    string `json:"company_name" validate:"required"`
	CareersURL     string `json:"careers_url" validate:"required,url"`
	RoleKeyword    string `json:"role_keyword" validate:"required"`
	Active         *bool  `json:"active,omitempty"`
	ScrapeStrategy string `json:"scrape_strategy,omitempty" validate:"omitempty,oneof=default firecrawl"`
}

// UpdateTargetRequest is the payload for partially updating a target.
// Nil fields are left untouched.
type UpdateTargetRequest struct {
	CompanyName    *string `json:"company_name,omitempty"`
	CareersURL     *string `json:"careers_url,omitempty" validate:"omitempty,url"`
	RoleKeyword    *string `json:"role_keyword,omitempty"`
	Active         *bool   `json:"active,omitempty"`
	ScrapeStrategy *string `json:"scrape_strategy,omitempty" validate:"omitempty,oneof=default firecrawl"`
}
