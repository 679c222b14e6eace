// Package clients provides the resilient HTTP client used to reach the remote
// quote endpoint. The acl subpackage turns its failures into domain errors.
package clients

import (
	"errors"
	"fmt"
)

var (
	// ErrCircuitOpen means the breaker refused the call without contacting the remote.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once a request has used every
	// attempt it was allowed. Non-idempotent requests are allowed one.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is a 5xx answer that was treated as a failed attempt.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}
