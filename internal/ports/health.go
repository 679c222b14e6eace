package ports

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when a checker name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is a dependency whose reachability gates readiness, such as
// the slot store.
type HealthChecker interface {
	// Name identifies the check in readiness output. It must be unique.
	Name() string

	// Check returns nil when the dependency is usable. It must honour ctx.
	Check(ctx context.Context) error
}

// OptionalChecker is a checker whose failure only degrades the service. The
// remote quote endpoint is one: local quotes keep working while it is down.
type OptionalChecker interface {
	HealthChecker
	Optional() bool
}

// HealthRegistry runs every registered check on demand.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the outcome of one check or of all of them.
type HealthStatus string

// Statuses ordered from best to worst.
const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusDegraded:
		return 1
	case HealthStatusUnhealthy:
		return 2
	default:
		return 0
	}
}

// HealthResult is the aggregate of one CheckAll run. Its Status is the worst
// status among Checks.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is one checker's outcome. Message holds the failure.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// HealthChecks is the HealthRegistry used by the service. It is safe for
// concurrent use.
type HealthChecks struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
}

// NewHealthRegistry returns an empty registry.
func NewHealthRegistry() *HealthChecks {
	return &HealthChecks{checkers: make(map[string]HealthChecker)}
}

// Register adds checker. Names must be unique.
func (r *HealthChecks) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if _, taken := r.checkers[name]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers[name] = checker

	return nil
}

// Names returns the registered check names in order.
func (r *HealthChecks) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.checkers))
}

// CheckAll runs every check concurrently under ctx and waits for all of them.
func (r *HealthChecks) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Collect(maps.Values(r.checkers))
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Go(func() {
			results[i] = runCheck(ctx, checker)
		})
	}

	wg.Wait()

	agg := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, checker := range checkers {
		agg.Checks[checker.Name()] = results[i]

		if results[i].Status.rank() > agg.Status.rank() {
			agg.Status = results[i].Status
		}
	}

	return agg
}

func runCheck(ctx context.Context, checker HealthChecker) *CheckResult {
	start := time.Now()
	err := checker.Check(ctx)
	result := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}

	if err == nil {
		return result
	}

	result.Message = err.Error()
	result.Status = HealthStatusUnhealthy

	if opt, ok := checker.(OptionalChecker); ok && opt.Optional() {
		result.Status = HealthStatusDegraded
	}

	return result
}
