// Package store defines the persistence contract for targets and job
// records. The pipeline is the only writer of job records; everything else
// goes through the admin API.
package store

import (
	"context"
	"errors"

	"jobradar/pkg/models"
)

var (
	// ErrNotFound is returned when a target or job does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateJob is returned by CreateJob when a record with the
	// same deduplication key already exists. The insert is atomic, so
	// concurrent runs racing on the same posting get exactly one winner.
	ErrDuplicateJob = errors.New("store: duplicate job")
)

// TargetStore manages career-page targets.
type TargetStore interface {
	ListActiveTargets(ctx context.Context) ([]models.Target, error)
	ListTargets(ctx context.Context) ([]models.Target, error)
	GetTarget(ctx context.Context, id string) (*models.Target, error)
	CreateTarget(ctx context.Context, t *models.Target) error
	UpdateTarget(ctx context.Context, t *models.Target) error
	DeleteTarget(ctx context.Context, id string) error
}

// JobStore manages persisted job records.
type JobStore interface {
	// ListJobKeys returns the set of deduplication keys recorded for a
	// target. The pipeline re-reads this every run instead of caching.
	ListJobKeys(ctx context.Context, targetID string) (map[string]struct{}, error)

	// CreateJob inserts a record, returning ErrDuplicateJob when its
	// deduplication key is already present.
	CreateJob(ctx context.Context, job *models.JobRecord) error

	ListJobs(ctx context.Context, filter models.JobFilter) ([]models.JobRecord, error)
	GetJob(ctx context.Context, id string) (*models.JobRecord, error)
	UpdateJobStatus(ctx context.Context, id, status, notes, referralContact string) error
	DeleteJob(ctx context.Context, id string) error

	Stats(ctx context.Context) (*models.StatsResponse, error)
}

// Store is the full persistence surface.
type Store interface {
	TargetStore
	JobStore

	Ping(ctx context.Context) error
	Close()
}
