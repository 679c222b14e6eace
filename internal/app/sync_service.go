package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// SyncTrigger names what started a reconciliation pass.
type SyncTrigger string

const (
	TriggerManual   SyncTrigger = "manual"
	TriggerPeriodic SyncTrigger = "periodic"
	TriggerImport   SyncTrigger = "import"
	TriggerStartup  SyncTrigger = "startup"
)

// SyncStatus is the outcome of a reconciliation pass.
type SyncStatus string

const (
	SyncSuccess   SyncStatus = "success"
	SyncFailed    SyncStatus = "failed"
	SyncCancelled SyncStatus = "cancelled"
)

// ErrSyncStopped is returned for passes requested after Stop.
var ErrSyncStopped = errors.New("sync service stopped")

// SyncResult reports one reconciliation pass.
type SyncResult struct {
	Status        SyncStatus  `json:"status"`
	Trigger       SyncTrigger `json:"trigger"`
	UnmergedLocal int         `json:"unmergedLocal"`
	RemoteCount   int         `json:"remoteCount"`
	Total         int         `json:"total"`
	Error         string      `json:"error,omitempty"`
	StartedAt     time.Time   `json:"startedAt"`
	FinishedAt    time.Time   `json:"finishedAt"`
}

// Duration returns how long the pass took.
func (r *SyncResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// PushOutcome reports the push of a single quote.
type PushOutcome struct {
	Quote    domain.Quote
	RemoteID int
	Err      error
}

// SyncServiceConfig contains the dependencies and limits of a SyncService.
type SyncServiceConfig struct {
	Store   *QuoteStore
	Remote  ports.RemoteQuotes
	Metrics *telemetry.SyncMetrics
	Logger  *slog.Logger

	// Timeout bounds a single pass or push. Zero means no bound.
	Timeout time.Duration

	// PushConcurrency bounds PushAll. Values below 1 mean one.
	PushConcurrency int
}

// SyncService reconciles the quote store against the remote endpoint.
//
// Concurrent Reconcile calls share a single pass, and passes never overlap.
// Every pass runs under the service lifetime, so Stop cancels one in flight
// even when the caller that started it has gone away. Background pushes are
// drained instead: Stop only cancels them once its own context ends.
type SyncService struct {
	store           *QuoteStore
	remote          ports.RemoteQuotes
	metrics         *telemetry.SyncMetrics
	logger          *slog.Logger
	timeout         time.Duration
	pushConcurrency int

	flight singleflight.Group
	runMu  sync.Mutex

	lastMu sync.RWMutex
	last   *SyncResult

	lifetime context.Context
	stop     context.CancelFunc

	// pushMu orders PushInBackground against Stop so no push is added while
	// Stop waits on pushes.
	pushMu      sync.Mutex
	closing     bool
	pushLife    context.Context
	abortPushes context.CancelFunc
	pushes      sync.WaitGroup

	now func() time.Time
}

// NewSyncService creates a sync service.
// Panics if Store or Remote is nil. Defaults logger to slog.Default() if nil.
func NewSyncService(cfg SyncServiceConfig) *SyncService {
	if cfg.Store == nil {
		panic("SyncService: Store is required")
	}

	if cfg.Remote == nil {
		panic("SyncService: Remote is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lifetime, stop := context.WithCancel(context.Background())
	pushLife, abortPushes := context.WithCancel(context.Background())

	return &SyncService{
		store:           cfg.Store,
		remote:          cfg.Remote,
		metrics:         cfg.Metrics,
		logger:          logger,
		timeout:         cfg.Timeout,
		pushConcurrency: max(cfg.PushConcurrency, 1),
		lifetime:        lifetime,
		stop:            stop,
		pushLife:        pushLife,
		abortPushes:     abortPushes,
		now:             time.Now,
	}
}

// Reconcile runs a reconciliation pass, or joins the one already in flight.
//
// The caller's context bounds only the wait: a caller that gives up does not
// cancel the shared pass. On failure the result is still returned alongside
// the error so callers can report it.
func (s *SyncService) Reconcile(ctx context.Context, trigger SyncTrigger) (*SyncResult, error) {
	if s.lifetime.Err() != nil {
		return nil, ErrSyncStopped
	}

	ch := s.flight.DoChan("reconcile", func() (any, error) {
		return s.runPass(ctx, trigger)
	})

	select {
	case res := <-ch:
		result, _ := res.Val.(*SyncResult)
		if res.Shared {
			logging.FromContext(ctx).DebugContext(ctx, "joined in-flight reconciliation",
				slog.String("trigger", string(trigger)))
		}

		return result, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runPass executes one pass under the run lock and records its outcome.
func (s *SyncService) runPass(ctx context.Context, trigger SyncTrigger) (*SyncResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx, cancel := s.passContext(ctx)
	defer cancel()

	logger := logging.FromContextOr(ctx, s.logger).With(slog.String("trigger", string(trigger)))
	ctx = logging.WithContext(ctx, logger)

	started := s.now()
	result, err := Execute(ctx, s.reconcileOperation(), trigger)

	if err != nil {
		result = &SyncResult{
			Status:  SyncFailed,
			Trigger: trigger,
			Total:   s.store.Len(),
			Error:   err.Error(),
		}

		if s.lifetime.Err() != nil {
			result.Status = SyncCancelled
		}

		logger.WarnContext(ctx, "reconciliation failed", slog.Any("error", err))
	}

	result.StartedAt = started
	result.FinishedAt = s.now()

	s.metrics.ObserveRun(string(result.Status), result.Duration().Seconds(), result.UnmergedLocal)
	s.setLast(result)

	return result, err
}

// passContext detaches ctx from its caller's cancellation and binds it to the
// service lifetime and the configured timeout. Values such as the logger survive.
func (s *SyncService) passContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return s.detach(ctx, s.lifetime)
}

// detach is passContext with an explicit owner whose end cancels the result.
func (s *SyncService) detach(ctx, owner context.Context) (context.Context, context.CancelFunc) {
	var cancel context.CancelFunc

	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	unbind := context.AfterFunc(owner, cancel)

	return ctx, func() {
		unbind()
		cancel()
	}
}

// mergeOutcome carries what the archive step learned to the respond step.
type mergeOutcome struct {
	remoteCount int
	added       int
	total       int
}

// reconcileOperation fetches the remote collection, checks it, and merges the
// local collection into it under the store's write lock.
func (s *SyncService) reconcileOperation() Operation[SyncTrigger, []domain.Quote, []domain.Quote, *SyncResult] {
	var outcome mergeOutcome

	return Operation[SyncTrigger, []domain.Quote, []domain.Quote, *SyncResult]{
		Name: "reconcile",
		Perform: func(ctx context.Context, _ SyncTrigger) ([]domain.Quote, error) {
			return s.remote.FetchRemoteQuotes(ctx)
		},
		Verify: func(ctx context.Context, _ SyncTrigger, remote []domain.Quote) ([]domain.Quote, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			for i, q := range remote {
				if q.Text == "" || q.Category == "" {
					return nil, fmt.Errorf("remote quote %d is incomplete", i)
				}
			}

			return remote, nil
		},
		Archive: func(ctx context.Context, _ SyncTrigger, remote []domain.Quote) error {
			return s.store.Commit(ctx, func(local []domain.Quote) []domain.Quote {
				merged, added := domain.Reconcile(local, remote)
				outcome = mergeOutcome{remoteCount: len(remote), added: added, total: len(merged)}

				return merged
			})
		},
		Respond: func(ctx context.Context, trigger SyncTrigger, _ []domain.Quote) (*SyncResult, error) {
			logging.FromContext(ctx).InfoContext(ctx, "reconciliation finished",
				slog.Int("remote", outcome.remoteCount),
				slog.Int("unmerged_local", outcome.added),
				slog.Int("total", outcome.total),
			)

			return &SyncResult{
				Status:        SyncSuccess,
				Trigger:       trigger,
				UnmergedLocal: outcome.added,
				RemoteCount:   outcome.remoteCount,
				Total:         outcome.total,
			}, nil
		},
	}
}

// LastResult returns the outcome of the most recent pass, if any.
func (s *SyncService) LastResult() (*SyncResult, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()

	if s.last == nil {
		return nil, false
	}

	result := *s.last

	return &result, true
}

func (s *SyncService) setLast(result *SyncResult) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()

	s.last = result
}

// PushQuote submits a single quote to the remote endpoint. It is never retried.
func (s *SyncService) PushQuote(ctx context.Context, quote domain.Quote) (*ports.PushResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "app.push")
	defer span.End()

	span.SetAttributes(attribute.String("quote.category", quote.Category))

	result, err := s.remote.PushQuote(ctx, quote)
	if err != nil {
		s.metrics.ObservePush(telemetry.OutcomeFailed)
		return nil, fmt.Errorf("pushing quote: %w", err)
	}

	s.metrics.ObservePush(telemetry.OutcomeSuccess)
	logging.FromContext(ctx).DebugContext(ctx, "quote pushed", slog.Int("remote_id", result.RemoteID))

	return result, nil
}

// PushAll pushes quotes with bounded concurrency. Every quote gets an outcome in
// input order; one failure does not stop the others.
func (s *SyncService) PushAll(ctx context.Context, quotes []domain.Quote) []PushOutcome {
	fns := make([]func(context.Context) (*ports.PushResult, error), len(quotes))
	for i, q := range quotes {
		fns[i] = func(ctx context.Context) (*ports.PushResult, error) {
			ctx, cancel := s.pushContext(ctx)
			defer cancel()

			return s.PushQuote(ctx, q)
		}
	}

	results := FanOut(ctx, s.pushConcurrency, fns...)

	outcomes := make([]PushOutcome, len(quotes))
	for i, r := range results {
		outcomes[i] = PushOutcome{Quote: quotes[i], Err: r.Err}
		if r.Value != nil {
			outcomes[i].RemoteID = r.Value.RemoteID
		}
	}

	return outcomes
}

// PushInBackground pushes a quote without blocking the caller. Failures are
// logged as warnings; local state is never affected. The push outlives its
// caller and is drained by Stop. Once Stop has begun, new pushes are dropped.
func (s *SyncService) PushInBackground(ctx context.Context, quote domain.Quote) {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	if s.closing {
		return
	}

	ctx, cancel := s.detach(ctx, s.pushLife)

	s.pushes.Go(func() {
		defer cancel()

		if _, err := s.PushQuote(ctx, quote); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "background push failed",
				slog.String("category", quote.Category),
				slog.Any("error", err))
		}
	})
}

func (s *SyncService) pushContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

// Stop cancels the pass in flight and lets background pushes finish. When ctx
// ends first the remaining pushes are cancelled and its error is returned.
// Reconcile fails with ErrSyncStopped afterwards.
func (s *SyncService) Stop(ctx context.Context) error {
	s.pushMu.Lock()
	s.closing = true
	s.pushMu.Unlock()

	s.stop()
	defer s.abortPushes()

	done := make(chan struct{})
	go func() {
		s.pushes.Wait()

		s.runMu.Lock()
		s.runMu.Unlock() //nolint:staticcheck // waits for the in-flight pass

		close(done)
	}()

	select {
	case <-done:
		s.logger.InfoContext(ctx, "sync service stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for sync work: %w", ctx.Err())
	}
}
