package http

import (
	"cmp"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests unless RouterConfig says otherwise.
const DefaultRequestTimeout = 30 * time.Second

// importPath streams uploads and runs without the API deadline.
const importPath = "/api/v1/quotes/import"

// RouterConfig collects what SetupRouter mounts. Nil handlers are skipped.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler
	SyncHandler   *handlers.SyncHandler

	// Tracing adds otelgin spans. Metrics are always recorded.
	Tracing bool

	// Timeout is the API request deadline; zero disables it.
	Timeout time.Duration
}

// NewDefaultRouterConfig returns a RouterConfig with the default request timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	quoteHandler *handlers.QuoteHandler,
	syncHandler *handlers.SyncHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		QuoteHandler:  quoteHandler,
		SyncHandler:   syncHandler,
		Timeout:       DefaultRequestTimeout,
	}
}

// SetupRouter mounts middleware and routes on engine.
//
// Every request passes recovery, request and correlation IDs, telemetry and
// access logging, in that order. Probes and metrics live under /-/; the quote
// API lives under /api/v1 where each request also gets a session ID and,
// except for imports, a deadline.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	service := "quote-sync"
	if cfg.AppConfig != nil {
		service = cmp.Or(cfg.AppConfig.Name, service)
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)

	if cfg.Tracing {
		engine.Use(telemetry.TracingMiddleware(service))
	}

	engine.Use(
		telemetry.Middleware(service),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api/v1", middleware.Session())
	if cfg.Timeout > 0 {
		api.Use(middleware.TimeoutWithSkipPaths(cfg.Timeout, []string{importPath}))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(api)
	}

	if cfg.SyncHandler != nil {
		cfg.SyncHandler.RegisterSyncRoutes(api)
	}
}
