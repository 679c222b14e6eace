package clients

import (
	"sync"
	"time"
)

// State is the position of a circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// MarshalText renders the state by name in JSON status payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	MaxFailures   int
	Timeout       time.Duration
	HalfOpenLimit int
}

// CircuitBreaker opens after MaxFailures consecutive failures and refuses calls
// for Timeout. It then admits up to HalfOpenLimit concurrent probes: that many
// successes close it, and any failure opens it again.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time
	listeners []func(from, to State)
}

// Snapshot is a point-in-time view of the breaker for status reporting.
// RetryAt is set only while the breaker is open.
type Snapshot struct {
	State               State     `json:"state"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	RetryAt             time.Time `json:"retryAt,omitzero"`
}

type transition struct {
	from, to State
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to be called after every state change. Listeners
// run on the goroutine that caused the change, outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.listeners = append(cb.listeners, fn)
}

// Allow reports whether a call may proceed. Every allowed call must be
// followed by RecordSuccess, RecordFailure or Abandon.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed bool
		moved   []transition
	)

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
			moved = cb.moveTo(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	cb.mu.Unlock()
	cb.notify(moved)

	return allowed
}

// RecordSuccess reports a call the remote answered.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var moved []transition

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.probes--
		cb.successes++

		if cb.successes >= cb.cfg.HalfOpenLimit {
			moved = cb.moveTo(StateClosed)
		}
	}

	cb.mu.Unlock()
	cb.notify(moved)
}

// RecordFailure reports a call the remote failed.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var moved []transition

	switch cb.state {
	case StateClosed:
		cb.failures++

		if cb.failures >= cb.cfg.MaxFailures {
			moved = cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.probes--
		cb.failures++
		moved = cb.moveTo(StateOpen)
	}

	cb.mu.Unlock()
	cb.notify(moved)
}

// Abandon releases an allowed call that ended without a verdict on the
// remote, such as one cancelled by its caller.
func (cb *CircuitBreaker) Abandon() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen && cb.probes > 0 {
		cb.probes--
	}
}

// State returns the current state without advancing an expired open breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// Snapshot returns the current state and consecutive failure count.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	snap := Snapshot{State: cb.state, ConsecutiveFailures: cb.failures}
	if cb.state == StateOpen {
		snap.RetryAt = cb.openedAt.Add(cb.cfg.Timeout)
	}

	return snap
}

// moveTo changes state and returns the transition for notify. Callers hold mu.
// Failures survive opening so status reports show why the breaker tripped.
func (cb *CircuitBreaker) moveTo(to State) []transition {
	from := cb.state
	if from == to {
		return nil
	}

	cb.state = to
	cb.successes = 0

	switch to {
	case StateOpen:
		cb.openedAt = cb.now()
		cb.probes = 0
	case StateClosed:
		cb.failures = 0
	}

	return []transition{{from: from, to: to}}
}

func (cb *CircuitBreaker) notify(moved []transition) {
	if len(moved) == 0 {
		return
	}

	cb.mu.Lock()
	listeners := cb.listeners
	cb.mu.Unlock()

	for _, t := range moved {
		for _, fn := range listeners {
			fn(t.from, t.to)
		}
	}
}
