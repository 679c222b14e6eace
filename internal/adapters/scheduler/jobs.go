package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen/quote-sync/internal/app"
)

// Reconciler runs a reconciliation pass.
type Reconciler interface {
	Reconcile(ctx context.Context, trigger app.SyncTrigger) (*app.SyncResult, error)
}

// Sweeper evicts expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// SyncJob returns a job that triggers a periodic reconciliation pass.
// The pass records its own outcome; the job only logs unexpected errors.
func SyncJob(r Reconciler, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) {
		_, err := r.Reconcile(ctx, app.TriggerPeriodic)
		if err == nil || errors.Is(err, app.ErrSyncStopped) || errors.Is(err, context.Canceled) {
			return
		}

		logger.WarnContext(ctx, "periodic sync failed", slog.Any("error", err))
	}
}

// SweepJob returns a job that evicts idle sessions.
func SweepJob(s Sweeper, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) {
		if n := s.Sweep(); n > 0 {
			logger.DebugContext(ctx, "expired sessions evicted", slog.Int("count", n))
		}
	}
}
