package acl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

var (
	_ ports.RemoteQuotes    = (*RemoteQuoteClient)(nil)
	_ ports.OptionalChecker = (*RemoteQuoteClient)(nil)
)

func testConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "remote-quotes",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

// setupRemoteClient creates a RemoteQuoteClient talking to a test server.
func setupRemoteClient(t *testing.T, handler http.HandlerFunc) *RemoteQuoteClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	return NewRemoteQuoteClient(RemoteQuoteClientConfig{
		Client:      client,
		ServiceName: "remote-quotes",
		PostsPath:   "/posts",
		UserID:      7,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestNewRemoteQuoteClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewRemoteQuoteClient(RemoteQuoteClientConfig{})
	})
}

func TestNewRemoteQuoteClient_Defaults(t *testing.T) {
	client, err := clients.New(testConfig("http://example.com"))
	require.NoError(t, err)

	c := NewRemoteQuoteClient(RemoteQuoteClientConfig{Client: client})

	assert.Equal(t, "remote-quotes", c.Name())
	assert.Equal(t, "/posts", c.postsPath)
	assert.NotNil(t, c.logger)
	assert.True(t, c.Optional())
}

func TestRemoteQuoteClient_FetchRemoteQuotes(t *testing.T) {
	c := setupRemoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/posts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "userId": 1, "title": "sunt aut facere", "body": "quia et suscipit\nsuscipit"},
			{"id": 2, "userId": 1, "title": "qui est esse", "body": ""},
			{"id": 3, "userId": 1, "title": "   ", "body": "ignored"},
			{"id": 4, "userId": 2, "title": "ea molestias", "body": "   spaced   out"},
			{"id": 5, "userId": 2, "title": "no body"},
			{"id": 6, "userId": 2, "title": "  padded  ", "body": "Edge"}
		]`))
	})

	got, err := c.FetchRemoteQuotes(context.Background())
	require.NoError(t, err)

	want := []domain.Quote{
		{Text: "sunt aut facere", Category: "quia"},
		{Text: "qui est esse", Category: domain.FallbackCategory},
		{Text: "ea molestias", Category: "spaced"},
		{Text: "no body", Category: domain.FallbackCategory},
		{Text: "  padded  ", Category: "Edge"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FetchRemoteQuotes() mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteQuoteClient_FetchRemoteQuotes_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `{}`, http.StatusInternalServerError},
		{"not found", http.StatusNotFound, `{}`, http.StatusNotFound},
		{"malformed json", http.StatusOK, `[{"id":`, 0},
		{"wrong shape", http.StatusOK, `{"id": 1}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupRemoteClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchRemoteQuotes(context.Background())

			require.Error(t, err)
			assert.True(t, domain.IsRemote(err))

			var remoteErr *domain.RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, "fetch", remoteErr.Operation)
			assert.Equal(t, tt.wantStatus, remoteErr.StatusCode)
		})
	}
}

func TestRemoteQuoteClient_PushQuote(t *testing.T) {
	var received map[string]any

	c := setupRemoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 101, "title": "x"}`))
	})

	result, err := c.PushQuote(context.Background(), domain.Quote{Text: "Be bold.", Category: "Action"})
	require.NoError(t, err)

	assert.Equal(t, 101, result.RemoteID)
	assert.Equal(t, map[string]any{"title": "Be bold.", "body": "Action", "userId": float64(7)}, received)
}

func TestRemoteQuoteClient_PushQuote_EmptyEcho(t *testing.T) {
	c := setupRemoteClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	result, err := c.PushQuote(context.Background(), domain.Quote{Text: "A", Category: "X"})

	require.NoError(t, err)
	assert.Equal(t, 0, result.RemoteID)
}

func TestRemoteQuoteClient_PushQuote_Rejected(t *testing.T) {
	var calls int32

	c := setupRemoteClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.PushQuote(context.Background(), domain.Quote{Text: "A", Category: "X"})

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "push", remoteErr.Operation)
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "pushes are sent once")
}

func TestRemoteQuoteClient_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		c := setupRemoteClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("_limit"))
			_, _ = w.Write([]byte(`[]`))
		})

		assert.NoError(t, c.Check(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		c := setupRemoteClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		assert.True(t, domain.IsRemote(c.Check(context.Background())))
	})
}

func TestRemoteQuoteClient_CircuitOpen(t *testing.T) {
	c := setupRemoteClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for range 5 {
		_, _ = c.FetchRemoteQuotes(context.Background())
	}

	assert.Equal(t, clients.StateOpen, c.Circuit().State)

	_, err := c.FetchRemoteQuotes(context.Background())
	assert.True(t, domain.IsRemote(err))
	assert.True(t, domain.IsUnavailable(err))
}

func TestCategoryFromBody(t *testing.T) {
	tests := map[string]string{
		"":                   domain.FallbackCategory,
		"   \n\t":            domain.FallbackCategory,
		"Work":               "Work",
		"Self Help":          "Self",
		"\nquia et suscipit": "quia",
	}

	for body, want := range tests {
		assert.Equal(t, want, categoryFromBody(body), "body %q", body)
	}
}
