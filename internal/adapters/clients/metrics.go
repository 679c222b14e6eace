package clients

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	outcomeCircuitOpen = "circuit_open"
	outcomeCanceled    = "canceled"
	outcomeError       = "error"
)

type clientMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

func newClientMetrics(meter metric.Meter) (*clientMetrics, error) {
	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of requests to downstream services"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Requests to downstream services by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &clientMetrics{duration: duration, requests: requests}, nil
}

// record notes one call. outcome is a status class such as "2xx" or one of
// the outcome constants when no response was received.
func (m *clientMetrics) record(ctx context.Context, service, method string, status int, elapsed time.Duration, outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("peer.service", service),
		attribute.String("http.method", method),
		attribute.String("result", outcome),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	set := metric.WithAttributes(attrs...)
	m.duration.Record(ctx, elapsed.Seconds(), set)
	m.requests.Add(ctx, 1, set)
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

