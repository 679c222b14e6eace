// Package bootstrap assembles the quote store, its persistence and the remote
// sync client from configuration. Both the HTTP service and quotectl build
// their object graph here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-sync/internal/adapters/flags"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// Components is the wired application core.
type Components struct {
	Slots      storage.SlotStore
	Repository *storage.QuoteRepository
	Sessions   *storage.SessionStore
	Remote     *acl.RemoteQuoteClient
	Flags      *flags.Static
	Metrics    *telemetry.SyncMetrics
	Health     *ports.HealthChecks

	Store  *app.QuoteStore
	Sync   *app.SyncService
	Quotes *app.QuoteService
}

// Options tune Build for the calling binary.
type Options struct {
	// Registerer receives the sync metrics. Nil uses a private registry.
	Registerer prometheus.Registerer

	// UserAgent is sent with every remote request.
	UserAgent string
}

// Build opens storage, loads the collection and wires the services.
// The returned Components must be closed.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Components, error) {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.NewRegistry()
	}

	if cfg.Storage.Driver == storage.DriverSQLite {
		if err := ensureDir(cfg.Storage.Path); err != nil {
			return nil, err
		}
	}

	slots, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	c := &Components{
		Slots:      slots,
		Repository: storage.NewQuoteRepository(slots),
		Sessions:   storage.NewSessionStore(cfg.Session.TTL),
		Flags:      flags.NewStatic(cfg.Features),
		Metrics:    telemetry.NewSyncMetrics(opts.Registerer),
		Health:     ports.NewHealthRegistry(),
	}

	if err := c.wire(ctx, cfg, logger, opts); err != nil {
		_ = slots.Close()
		return nil, err
	}

	return c, nil
}

func (c *Components) wire(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	headers := http.Header{}
	if opts.UserAgent != "" {
		headers.Set("User-Agent", opts.UserAgent)
	}

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Remote.BaseURL,
		ServiceName: cfg.Services.Remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Headers:     headers,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	c.Remote = acl.NewRemoteQuoteClient(acl.RemoteQuoteClientConfig{
		Client:      httpClient,
		ServiceName: cfg.Services.Remote.Name,
		PostsPath:   cfg.Services.Remote.PostsPath,
		UserID:      cfg.Services.Remote.UserID,
		Logger:      logger,
	})

	if checker, ok := c.Slots.(ports.HealthChecker); ok {
		if err := c.Health.Register(checker); err != nil {
			return fmt.Errorf("registering storage health check: %w", err)
		}
	}

	if err := c.Health.Register(c.Remote); err != nil {
		return fmt.Errorf("registering remote health check: %w", err)
	}

	c.Store = app.NewQuoteStore(app.QuoteStoreConfig{
		Repository: c.Repository,
		Metrics:    c.Metrics,
	})

	if err := c.Store.Load(ctx); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	c.Sync = app.NewSyncService(app.SyncServiceConfig{
		Store:           c.Store,
		Remote:          c.Remote,
		Metrics:         c.Metrics,
		Logger:          logger,
		Timeout:         cfg.Sync.Timeout,
		PushConcurrency: cfg.Sync.PushConcurrency,
	})

	c.Quotes = app.NewQuoteService(app.QuoteServiceConfig{
		Store:      c.Store,
		Repository: c.Repository,
		Sessions:   c.Sessions,
		Sync:       c.Sync,
		Flags:      c.Flags,
		Logger:     logger,
	})

	return nil
}

// Close stops the sync service, letting in-flight pushes finish until ctx
// ends, then closes storage.
func (c *Components) Close(ctx context.Context) error {
	var errs []error

	if c.Sync != nil {
		if err := c.Sync.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping sync: %w", err))
		}
	}

	if err := c.Slots.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing storage: %w", err))
	}

	return errors.Join(errs...)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	return nil
}
