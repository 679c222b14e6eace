package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// HeaderTraceID carries the request's trace ID back to the caller.
const HeaderTraceID = "X-Trace-ID"

// unmatchedRoute labels unrouted requests so 404 scans don't add series.
const unmatchedRoute = "unmatched"

type serverMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerMetrics(meter metric.Meter) (*serverMetrics, error) {
	var (
		m   serverMetrics
		err error
	)

	if m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of API requests"), metric.WithUnit("s")); err != nil {
		return nil, err
	}

	if m.total, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("API requests served")); err != nil {
		return nil, err
	}

	if m.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("API requests in progress")); err != nil {
		return nil, err
	}

	return &m, nil
}

// Middleware records request metrics by route and echoes the trace ID, if
// any, in X-Trace-ID. Span creation is TracingMiddleware's job.
func Middleware(serviceName string) gin.HandlerFunc {
	metrics, err := newServerMetrics(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	service := attribute.String("service.name", serviceName)

	return func(c *gin.Context) {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if metrics == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		base := metric.WithAttributes(service, attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route))

		metrics.inFlight.Add(ctx, 1, base)
		defer metrics.inFlight.Add(ctx, -1, base)

		c.Next()

		status := metric.WithAttributes(attribute.Int("http.status_code", c.Writer.Status()))
		metrics.duration.Record(ctx, time.Since(start).Seconds(), base, status)
		metrics.total.Add(ctx, 1, base, status)
	}
}

// TracingMiddleware starts an otelgin server span per request. Probes under
// /-/ are left untraced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, "/-/")
	}))
}
