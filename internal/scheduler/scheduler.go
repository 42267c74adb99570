// Package scheduler wires up the cron job that periodically triggers a
// discovery run across all active targets.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"jobradar/internal/config"
	"jobradar/internal/logging"
	"jobradar/internal/logging/types"
	"jobradar/internal/pipeline"
)

// Scheduler wraps robfig/cron and fires discovery runs on a spec like
// "@every 6h". Overlapping ticks are skipped, never queued.
type Scheduler struct {
	cron         *cron.Cron
	orchestrator *pipeline.Orchestrator
	spec         string
	logger       types.Logger
	running      atomic.Bool
}

// New creates a Scheduler driving the given orchestrator.
func New(cfg *config.Config, orchestrator *pipeline.Orchestrator) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		orchestrator: orchestrator,
		spec:         cfg.Scheduler.Spec,
		logger:       logging.GetGlobalLogger(),
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop halts the cron loop. A run already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Previous scheduled run still in flight, skipping tick")
		return
	}
	defer s.running.Store(false)

	summary := s.orchestrator.Run(ctx)
	s.logger.Info("Scheduled run finished", map[string]interface{}{
		"status":         summary.Status,
		"total_new_jobs": summary.TotalNewJobs,
		"failures":       len(summary.Errors),
	})
}
