package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler prunes old runs on a cron schedule (e.g. daily at 3 AM).
type Scheduler struct {
	store         *Store
	schedule      string
	retentionDays int
	cron          *cron.Cron
	mu            sync.Mutex
	logger        *slog.Logger
	running       bool
}

// NewScheduler creates a prune scheduler for the given store.
func NewScheduler(store *Store, schedule string, retentionDays int) *Scheduler {
	return &Scheduler{
		store:         store,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(),
		logger:        slog.Default().With("component", "history.scheduler"),
	}
}

// Start begins scheduled pruning based on the cron expression.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
//
// If the schedule is empty, the scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runPruning(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("history prune scheduler started",
		"schedule", s.schedule,
		"retention_days", s.retentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runPruning executes a pruning cycle.
func (s *Scheduler) runPruning(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.store.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("scheduled pruning completed, no runs deleted")
	}
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("history prune scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled pruning time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
