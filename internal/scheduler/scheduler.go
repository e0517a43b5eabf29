// Package scheduler runs the periodic maintenance jobs: the preference
// retention sweep and the economic-calendar refresh.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/challenge-blueprint/internal/logger"
)

// Sweeper deletes stored preferences older than retention.
type Sweeper interface {
	Sweep(ctx context.Context, retention time.Duration) (int64, error)
}

// Refresher reloads a cached feed.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages scheduled maintenance jobs
type Scheduler struct {
	cron    *cron.Cron
	logger  *logrus.Entry
	timeout time.Duration

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler. Jobs run in UTC.
func NewScheduler(log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		logger:  log.WithField("component", "scheduler"),
		timeout: 5 * time.Minute,
		jobIDs:  make([]cron.EntryID, 0),
	}
}

// ScheduleRetentionSweep deletes preferences older than retention on the
// given cron expression. A non-positive retention schedules nothing.
func (s *Scheduler) ScheduleRetentionSweep(cronExpression string, sweeper Sweeper, retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	return s.add("retention_sweep", cronExpression, func(ctx context.Context) error {
		deleted, err := sweeper.Sweep(ctx, retention)
		if err == nil {
			s.logger.WithField("deleted", deleted).Debug("Retention sweep finished")
		}
		return err
	})
}

// ScheduleCalendarRefresh reloads the calendar feed on the given cron expression.
func (s *Scheduler) ScheduleCalendarRefresh(cronExpression string, refresher Refresher) error {
	return s.add("calendar_refresh", cronExpression, refresher.Refresh)
}

func (s *Scheduler) add(name, cronExpression string, job func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{"job": name, "schedule": cronExpression}).Info("Scheduled job")
	return nil
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
		return
	}
	s.logger.WithFields(logrus.Fields{"job": name, "duration": time.Since(start)}).Debug("Scheduled job completed")
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

// Stop waits for running jobs to finish and stops the scheduler
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

// JobCount returns the number of scheduled jobs.
func (s *Scheduler) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobIDs)
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var nextRun time.Time
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}
