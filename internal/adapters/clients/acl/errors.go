package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// transportError maps a failure that produced no usable response. An open
// circuit is a remote failure that is also unavailable; retries that ended on
// a 5xx keep that status.
func (x exchange) transportError(err error, op string) error {
	if errors.Is(err, clients.ErrCircuitOpen) {
		return domain.WrapRemoteError(op, domain.NewUnavailableError(x.service, "circuit breaker open during "+op))
	}

	var status *clients.StatusError
	if errors.As(err, &status) {
		return domain.NewRemoteError(op, status.StatusCode, http.StatusText(status.StatusCode))
	}

	return domain.NewRemoteError(op, 0, err.Error())
}

// statusError maps a non-2xx answer, preferring the message in its body.
func statusError(resp *http.Response, op string) error {
	msg := errorMessage(resp.Body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	return domain.NewRemoteError(op, resp.StatusCode, msg)
}

// errorMessage pulls a message out of {"error":{"message":..}} or
// {"message":..} bodies. Anything else yields "".
func errorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}

	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}

	if payload.Error.Message != "" {
		return payload.Error.Message
	}

	return payload.Message
}
