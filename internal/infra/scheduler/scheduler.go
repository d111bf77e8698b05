// Package scheduler runs a job on a cron schedule for the lifetime of a context.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// stopTimeout bounds how long Run waits for a running job after ctx ends.
const stopTimeout = 5 * time.Second

// Job is the work done on each tick.
type Job func(ctx context.Context) error

// Scheduler runs one job on a schedule.
// Fields are ordered to minimize memory padding.
type Scheduler struct {
	cron     *cron.Cron
	job      Job
	logger   *slog.Logger
	name     string
	schedule string
}

// New creates a Scheduler. schedule is a standard five-field cron
// expression or a descriptor such as "@hourly" or "@every 30m".
func New(name, schedule string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		job:      job,
		logger:   logger,
		name:     name,
		schedule: schedule,
	}, nil
}

// Run starts the schedule and blocks until ctx is done. Job errors are
// logged; they do not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.job(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", s.name, "error", err)
			return
		}
		s.logger.Debug("scheduled job done", "job", s.name)
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", s.name, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "job", s.name, "schedule", s.schedule)

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(stopTimeout):
		s.logger.Warn("stop timeout waiting for running job", "job", s.name)
	}
	s.logger.Info("scheduler stopped", "job", s.name)
	return nil
}
