package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// errSkip tells translateAll to drop an item rather than fail the batch.
var errSkip = errors.New("skip item")

// exchange sends requests through the shared client. Whatever goes wrong
// comes back as a domain error, and only 2xx bodies reach the caller.
type exchange struct {
	client  *clients.Client
	service string
}

func (x exchange) get(ctx context.Context, path, op string) (io.ReadCloser, error) {
	resp, err := x.client.Get(ctx, path)
	return x.accept(resp, err, op)
}

func (x exchange) post(ctx context.Context, path string, body io.Reader, op string) (io.ReadCloser, error) {
	resp, err := x.client.Post(ctx, path, body)
	return x.accept(resp, err, op)
}

func (x exchange) accept(resp *http.Response, err error, op string) (io.ReadCloser, error) {
	if err != nil {
		return nil, x.transportError(err, op)
	}

	if resp.StatusCode/100 != 2 {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(resp, op)
	}

	return resp.Body, nil
}

// decodeJSON reads body into a T and closes it.
func decodeJSON[T any](body io.ReadCloser, op string) (T, error) {
	var v T

	if body == nil {
		return v, domain.NewRemoteError(op, 0, "empty response")
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(body).Decode(&v); err != nil {
		return v, domain.NewRemoteError(op, 0, fmt.Sprintf("decoding response: %v", err))
	}

	return v, nil
}

// translateAll converts every item, counting the ones translate skipped.
// Any other translate error fails the whole batch.
func translateAll[E, D any](items []E, translate func(*E) (D, error)) ([]D, int, error) {
	out := make([]D, 0, len(items))
	skipped := 0

	for i := range items {
		d, err := translate(&items[i])

		switch {
		case errors.Is(err, errSkip):
			skipped++
		case err != nil:
			return nil, skipped, fmt.Errorf("translating item %d: %w", i, err)
		default:
			out = append(out, d)
		}
	}

	return out, skipped, nil
}
