// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is the work done on each tick. The context is cancelled when the
// scheduler stops.
type JobFunc func(ctx context.Context)

// Scheduler wraps a cron runner with a lifetime context shared by its jobs.
// Ticks that arrive while the previous run of the same job is still busy
// are skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
}

// New creates a scheduler. Jobs run in UTC.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "scheduler"))
	cronLogger := &cronLogger{logger: logger}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every returns the cron spec for a fixed interval.
// Intervals below one second are rounded up by cron.
func Every(interval time.Duration) string {
	return "@every " + interval.String()
}

// Add registers a job under spec.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	job := cron.NewChain(cron.SkipIfStillRunning(&cronLogger{logger: s.logger})).Then(cron.FuncJob(func() {
		start := time.Now()

		fn(s.ctx)

		s.logger.Debug("job finished",
			slog.String("job", name),
			slog.Duration("duration", time.Since(start)),
		)
	}))

	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}

	s.logger.Info("job scheduled", slog.String("job", name), slog.String("spec", spec))

	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start begins running jobs in the background. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.started = true
	s.cron.Start()
	s.logger.Info("scheduler started", slog.Int("jobs", s.Len()))
}

// Stop cancels the job context and waits for running jobs to return, or for
// ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for scheduled jobs: %w", ctx.Err())
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

// Info is used by cron for routine scheduling chatter, so it logs at debug.
func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, slog.Any("error", err))...)
}
