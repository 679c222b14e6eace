package clients

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	defaultTimeout      = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	BaseURL string

	// ServiceName names the downstream in logs, spans and metrics.
	ServiceName string

	// Timeout bounds one attempt. Retries and backoff come on top of it.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Headers are set on every attempt, e.g. User-Agent.
	Headers http.Header

	Logger *slog.Logger
}

// Client sends requests to one downstream service. Every call goes through a
// circuit breaker, carries trace context and request IDs, and is retried with
// backoff when its method is idempotent.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	breaker *CircuitBreaker
	retry   retryPolicy
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *clientMetrics
}

// New creates a Client for cfg.ServiceName.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	metrics, err := newClientMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:     *cfg,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		breaker: NewCircuitBreaker(CircuitBreakerConfig(cfg.Circuit)),
		retry:   retryPolicy(cfg.Retry),
		logger: cmp.Or(cfg.Logger, slog.Default()).With(
			slog.String("component", "clients.Client"),
			slog.String("downstream", cfg.ServiceName),
		),
		tracer:  otel.Tracer(instrumentationName),
		metrics: metrics,
	}

	c.http = &http.Client{
		Timeout:   cmp.Or(max(cfg.Timeout, 0), defaultTimeout),
		Transport: newTransport(cfg.Transport),
	}

	c.breaker.OnStateChange(func(from, to State) {
		c.logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return c, nil
}

// Get sends a GET for path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.newRequest(ctx, http.MethodGet, path, http.NoBody)
}

// Post sends a JSON body to path. It is attempted once.
func (c *Client) Post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.newRequest(ctx, http.MethodPost, path, body)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.Do(ctx, req)
}

// Do sends req. Any response below 500 is returned to the caller, who owns
// its body. A 5xx answer is a failed attempt and ends as a *StatusError.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("downstream", c.cfg.ServiceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.breaker.Allow() {
		c.metrics.record(ctx, c.cfg.ServiceName, req.Method, 0, time.Since(start), outcomeCircuitOpen)
		logger.Warn("request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.cfg.ServiceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.cfg.ServiceName),
		),
	)
	defer span.End()

	c.decorate(ctx, req)

	resp, err := c.send(ctx, req, logger)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		c.breaker.RecordSuccess()
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

		if resp.StatusCode >= http.StatusBadRequest {
			span.SetStatus(codes.Error, resp.Status)
		}

		c.metrics.record(ctx, c.cfg.ServiceName, req.Method, resp.StatusCode, elapsed, statusClass(resp.StatusCode))
		logger.Debug("request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

		return resp, nil

	case errors.Is(err, context.Canceled):
		// The caller gave up, which says nothing about the remote.
		c.breaker.Abandon()
		span.SetStatus(codes.Error, err.Error())
		c.metrics.record(ctx, c.cfg.ServiceName, req.Method, 0, elapsed, outcomeCanceled)

		return nil, err

	default:
		c.breaker.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.record(ctx, c.cfg.ServiceName, req.Method, 0, elapsed, outcomeError)
		logger.Error("request failed", slog.Duration("duration", elapsed), slog.Any("error", err))

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}
}

// send runs the attempts allowed for req's method.
func (c *Client) send(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	attempts := c.retry.attempts(req.Method)

	for attempt := 1; ; attempt++ {
		resp, err := attemptResult(c.http.Do(req.WithContext(ctx)))
		if err == nil {
			return resp, nil
		}

		if attempt >= attempts || ctx.Err() != nil || !retryable(err) {
			return nil, err
		}

		wait := c.retry.backoff(attempt)
		logger.Debug("retrying request",
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", wait),
			slog.Any("error", err),
		)

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}

		if err := rewind(req); err != nil {
			return nil, err
		}
	}
}

// attemptResult turns a 5xx response into a *StatusError, closing its body.
func attemptResult(resp *http.Response, err error) (*http.Response, error) {
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// CircuitState returns the breaker's current state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// CircuitSnapshot returns the breaker's state for status reporting.
func (c *Client) CircuitSnapshot() Snapshot {
	return c.breaker.Snapshot()
}
