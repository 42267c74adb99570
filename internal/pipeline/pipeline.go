// Package pipeline runs the discovery flow for every active target: fetch
// the career page, extract candidates, partition against recorded jobs,
// persist the delta and dispatch notifications. Targets fail independently;
// the run always produces a summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobradar/internal/config"
	"jobradar/internal/dedupe"
	"jobradar/internal/logging"
	"jobradar/internal/logging/types"
	"jobradar/internal/notify"
	"jobradar/internal/store"
	"jobradar/pkg/models"
)

// Error categories recorded on failed target outcomes.
const (
	CategoryFetchFailed      = "fetch_failed"
	CategoryExtractionFailed = "extraction_failed"
	CategoryStoreUnavailable = "store_unavailable"
)

// Run statuses for the summary.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Fetcher retrieves page content for a target URL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL, strategy string) (string, error)
}

// Extractor turns page content into candidate postings.
type Extractor interface {
	ExtractCandidates(ctx context.Context, content, roleKeyword, pageURL string) ([]models.Candidate, error)
}

// Notifier fans a batch of new jobs out to delivery channels.
type Notifier interface {
	SendAll(ctx context.Context, jobs []models.JobRecord) map[string]notify.Result
}

// Orchestrator coordinates one discovery run across all active targets.
// It holds no cross-run state; the "already seen" set is re-read from the
// store on every run so overlapping invocations stay correct.
type Orchestrator struct {
	cfg       *config.Config
	fetcher   Fetcher
	extractor Extractor
	store     store.Store
	notifier  Notifier
	logger    types.Logger
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(cfg *config.Config, fetcher Fetcher, extractor Extractor, st store.Store, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		store:     st,
		notifier:  notifier,
		logger:    logging.GetGlobalLogger(),
	}
}

// Run executes one full discovery pass and always returns a summary. A
// store outage before any target starts is the only run-level failure.
func (o *Orchestrator) Run(ctx context.Context) *models.RunSummary {
	runID := uuid.New().String()
	summary := &models.RunSummary{
		Status:    RunCompleted,
		StartedAt: time.Now(),
		Errors:    []string{},
		PerTarget: []models.TargetOutcome{},
	}

	logger := o.logger.WithField("run_id", runID)
	logger.Info("Starting discovery run")

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Pipeline.RunTimeout)
	defer cancel()

	targets, err := o.store.ListActiveTargets(ctx)
	if err != nil {
		logger.Error("Run aborted, target list unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		summary.Status = RunFailed
		summary.Errors = append(summary.Errors, fmt.Sprintf("listing active targets: %v", err))
		o.finish(summary, logger)
		return summary
	}

	if len(targets) == 0 {
		logger.Info("No active targets, nothing to do")
		o.finish(summary, logger)
		return summary
	}

	concurrency := o.cfg.Pipeline.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]models.TargetOutcome, len(targets))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target models.Target) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = o.processTarget(ctx, logger, target)
		}(i, target)
	}
	wg.Wait()

	summary.TargetsChecked = len(targets)
	summary.PerTarget = outcomes
	for _, outcome := range outcomes {
		summary.TotalNewJobs += outcome.NewJobs
		if outcome.Status == models.OutcomeFailed {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", outcome.CompanyName, outcome.Error))
		}
	}

	o.finish(summary, logger)
	return summary
}

func (o *Orchestrator) finish(summary *models.RunSummary, logger types.Logger) {
	summary.FinishedAt = time.Now()
	summary.Duration = summary.FinishedAt.Sub(summary.StartedAt)
	logger.Info("Discovery run finished", map[string]interface{}{
		"status":          summary.Status,
		"targets_checked": summary.TargetsChecked,
		"total_new_jobs":  summary.TotalNewJobs,
		"failures":        len(summary.Errors),
		"duration":        summary.Duration.String(),
	})
}

// processTarget walks one target through fetch, extract, dedupe, persist
// and notify. Every failure is captured in the outcome, nothing escapes.
func (o *Orchestrator) processTarget(ctx context.Context, logger types.Logger, target models.Target) models.TargetOutcome {
	outcome := models.TargetOutcome{
		TargetID:    target.ID,
		CompanyName: target.CompanyName,
		Status:      models.OutcomeDone,
	}

	tlog := logger.WithFields(map[string]interface{}{
		"target_id": target.ID,
		"company":   target.CompanyName,
	})
	tlog.Info("Processing target", map[string]interface{}{
		"url":      target.CareersURL,
		"keyword":  target.RoleKeyword,
		"strategy": target.ScrapeStrategy,
	})

	content, err := o.fetcher.Fetch(ctx, target.CareersURL, target.ScrapeStrategy)
	if err != nil {
		return o.failTarget(tlog, outcome, CategoryFetchFailed, err)
	}

	candidates, err := o.extractor.ExtractCandidates(ctx, content, target.RoleKeyword, target.CareersURL)
	if err != nil {
		return o.failTarget(tlog, outcome, CategoryExtractionFailed, err)
	}

	existing, err := o.store.ListJobKeys(ctx, target.ID)
	if err != nil {
		return o.failTarget(tlog, outcome, CategoryStoreUnavailable, err)
	}

	partitioned := dedupe.Partition(target.ID, target.CareersURL, candidates, existing)
	tlog.Info("Candidates partitioned", map[string]interface{}{
		"extracted":   len(candidates),
		"new":         len(partitioned.New),
		"duplicates":  partitioned.Duplicates,
		"intra_batch": partitioned.IntraBatch,
		"dropped":     partitioned.Dropped,
	})

	inserted := make([]models.JobRecord, 0, len(partitioned.New))
	for _, match := range partitioned.New {
		record := newJobRecord(target, match)
		if err := o.store.CreateJob(ctx, &record); err != nil {
			if errors.Is(err, store.ErrDuplicateJob) {
				// A concurrent run won the insert, treat as duplicate
				outcome.NewJobs = len(inserted)
				continue
			}
			outcome.NewJobs = len(inserted)
			return o.failTarget(tlog, outcome, CategoryStoreUnavailable, err)
		}
		inserted = append(inserted, record)
	}
	outcome.NewJobs = len(inserted)

	if len(inserted) > 0 {
		for channel, result := range o.notifier.SendAll(ctx, inserted) {
			if !result.Success {
				outcome.ChannelErrors = append(outcome.ChannelErrors, channel)
			}
		}
	}

	tlog.Info("Target done", map[string]interface{}{
		"new_jobs":       outcome.NewJobs,
		"channel_errors": len(outcome.ChannelErrors),
	})
	return outcome
}

func (o *Orchestrator) failTarget(logger types.Logger, outcome models.TargetOutcome, category string, err error) models.TargetOutcome {
	logger.Error("Target failed", map[string]interface{}{
		"category": category,
		"error":    err.Error(),
	})
	outcome.Status = models.OutcomeFailed
	outcome.ErrorCategory = category
	outcome.Error = err.Error()
	return outcome
}

func newJobRecord(target models.Target, match dedupe.Match) models.JobRecord {
	now := time.Now()
	return models.JobRecord{
		ID:          uuid.New().String(),
		DedupKey:    match.Key,
		TargetID:    target.ID,
		CompanyName: target.CompanyName,
		Title:       match.Candidate.Title,
		URL:         match.Candidate.URL,
		Location:    match.Candidate.Location,
		PostedDate:  match.Candidate.PostedDate,
		RoleKeyword: target.RoleKeyword,
		Status:      models.StatusNew,
		FoundAt:     now,
		UpdatedAt:   now,
	}
}
