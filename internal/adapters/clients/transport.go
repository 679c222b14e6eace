package clients

import (
	"cmp"
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

// newTransport clones the default transport with the configured pool sizes.
func newTransport(cfg config.TransportConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // stdlib default
	transport.MaxIdleConns = cmp.Or(max(cfg.MaxIdleConns, 0), config.DefaultTransportMaxIdleConns)
	transport.MaxIdleConnsPerHost = cmp.Or(max(cfg.MaxIdleConnsPerHost, 0), config.DefaultTransportMaxIdleConnsPerHost)
	transport.IdleConnTimeout = cmp.Or(max(cfg.IdleConnTimeout, 0), config.DefaultTransportIdleConnTimeout)

	return transport
}

// decorate sets the static headers, the inbound request and correlation IDs,
// and the W3C trace context on req.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	for name, values := range c.cfg.Headers {
		req.Header[name] = values
	}

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
