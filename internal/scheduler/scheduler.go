// Package scheduler re-runs the scoring pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-ev/internal/service"
)

// Runner executes one load, score and save pass
type Runner interface {
	Run(ctx context.Context) (*service.RunSummary, error)
}

// Scheduler manages scheduled re-scoring jobs
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	logger     *logrus.Entry
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	runTimeout time.Duration

	statusMu    sync.RWMutex
	lastRun     time.Time
	lastErr     error
	lastSummary *service.RunSummary
}

// NewScheduler creates a new scheduler. Overlapping runs are skipped.
func NewScheduler(runner Runner, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner:     runner,
		logger:     logger.WithField("component", "scheduler"),
		jobIDs:     make([]cron.EntryID, 0),
		runTimeout: 10 * time.Minute,
	}
}

// ScheduleRescore schedules the pipeline with a standard cron expression or descriptor
func (s *Scheduler) ScheduleRescore(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled re-scoring job")
	return nil
}

// RunNow executes the pipeline immediately and records the outcome
func (s *Scheduler) RunNow(ctx context.Context) (*service.RunSummary, error) {
	summary, err := s.runner.Run(ctx)

	s.statusMu.Lock()
	s.lastRun = time.Now().UTC()
	s.lastErr = err
	if summary != nil {
		s.lastSummary = summary
	}
	s.statusMu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("Scheduled re-scoring failed")
		return summary, err
	}
	s.logger.WithFields(logrus.Fields{
		"run_id": summary.RunID.String(),
		"events": summary.Events,
	}).Info("Scheduled re-scoring completed")
	return summary, nil
}

// LastRun returns when the pipeline last ran and the error it returned
func (s *Scheduler) LastRun() (time.Time, error) {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.lastRun, s.lastErr
}

// LastSummary returns the most recent run summary, or nil before the first run
func (s *Scheduler) LastSummary() *service.RunSummary {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.lastSummary
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		if entry := s.cron.Entry(jobID); entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}
