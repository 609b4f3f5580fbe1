// Package scheduler runs the server's background jobs on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/feedingfoundation/locator/internal/logger"
)

// Job is a unit of background work. It receives a context that expires
// after the job's timeout.
type Job func(ctx context.Context) error

// Scheduler wraps a cron engine that runs in the directory's timezone.
type Scheduler struct {
	cronEngine *cron.Cron
	timeout    time.Duration
	runs       atomic.Int64
}

// New creates a scheduler evaluating specs in loc. Each job run gets at most
// timeout to finish.
func New(loc *time.Location, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout:    timeout,
	}
}

// Add registers job under name. spec accepts standard five-field cron
// expressions and descriptors such as "@every 5m" or "@hourly".
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cronEngine.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	logger.Debug("registered job", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		logger.Error("job failed", "job", name, "error", err)
		return
	}
	s.runs.Add(1)
	logger.Debug("job finished", "job", name, "took", time.Since(start))
}

// Runs returns the number of successful job runs so far.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

func (s *Scheduler) Start() {
	s.cronEngine.Start()
	logger.Info("scheduler started", "jobs", len(s.cronEngine.Entries()))
}

// Stop stops scheduling and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cronEngine.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("scheduler stopped before running jobs finished")
	}
}
