package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

type retryPolicy config.RetryConfig

// attempts is MaxAttempts for idempotent methods and 1 for everything else, so
// a push the remote may already have stored is never sent twice.
func (p retryPolicy) attempts(method string) int {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return max(p.MaxAttempts, 1)
	default:
		return 1
	}
}

// backoff is the wait after the given failed attempt: InitialInterval grown by
// Multiplier per attempt, capped at MaxInterval, then spread by ±JitterFactor.
func (p retryPolicy) backoff(attempt int) time.Duration {
	wait := float64(p.InitialInterval) * math.Pow(p.Multiplier, float64(attempt-1))
	wait = min(wait, float64(p.MaxInterval))

	if p.JitterFactor > 0 {
		spread := rand.Float64()*2 - 1 //nolint:gosec // jitter does not need crypto randomness
		wait += wait * p.JitterFactor * spread
	}

	return time.Duration(wait)
}

// retryable reports whether another attempt could succeed. Server errors,
// attempt timeouts and broken connections qualify; cancellation does not.
// The caller's own deadline is checked separately in send.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var status *StatusError
	if errors.As(err, &status) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// rewind resets req's body for another attempt.
func rewind(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}

	req.Body = body

	return nil
}
