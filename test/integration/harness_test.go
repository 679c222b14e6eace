//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/jsamuelsen/quote-sync/internal/adapters/http"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/bootstrap"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

// service is the quote-sync API running in-process against a fake remote.
type service struct {
	remote *fakeRemote
	core   *bootstrap.Components
	server *httptest.Server
}

// serviceOptions tweak the configuration a service starts with.
type serviceOptions struct {
	// StoragePath selects sqlite at the path; empty uses the memory driver.
	StoragePath string

	Features map[string]bool
}

func startService(ctx context.Context, remote *fakeRemote, opts serviceOptions) (*service, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.App.Environment = "test"
	cfg.Services.Remote.BaseURL = remote.URL()
	cfg.Client.Retry.MaxAttempts = 1
	cfg.Storage.Driver = storage.DriverMemory
	cfg.Storage.Path = ""

	if opts.StoragePath != "" {
		cfg.Storage.Driver = storage.DriverSQLite
		cfg.Storage.Path = opts.StoragePath
	}

	for flag, enabled := range opts.Features {
		cfg.Features[flag] = enabled
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry := prometheus.NewRegistry()

	core, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{Registerer: registry})
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()

	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(
		logger,
		&cfg.App,
		handlers.NewHealthHandler(core.Health, handlers.NewBuildInfo("test", "test", "test"), registry),
		handlers.NewQuoteHandler(core.Quotes),
		handlers.NewSyncHandler(core.Sync, core.Remote),
	))

	return &service{
		remote: remote,
		core:   core,
		server: httptest.NewServer(engine),
	}, nil
}

func (s *service) URL() string {
	return s.server.URL
}

func (s *service) Close() error {
	s.server.Close()

	return s.core.Close(context.Background())
}
