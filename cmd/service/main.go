// Command service runs the quote-sync HTTP API with periodic reconciliation.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-sync/internal/adapters/scheduler"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/bootstrap"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
)

// sweepInterval is how often idle sessions are evicted.
const sweepInterval = 5 * time.Minute

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(cmp.Or(os.Getenv("APP_ENVIRONMENT"), "local"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Error("flushing telemetry", slog.Any("error", err))
		}
	}()

	core, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{
		Registerer: prometheus.DefaultRegisterer,
		UserAgent:  cfg.App.Name + "/" + Version,
	})
	if err != nil {
		return fmt.Errorf("building application: %w", err)
	}

	logger.Info("quotes loaded", slog.Int("count", core.Store.Len()))

	sched, err := newScheduler(ctx, cfg, core, logger)
	if err != nil {
		return errors.Join(err, core.Close(ctx))
	}

	server := http.New(&cfg.Server, logger)

	routes := http.NewDefaultRouterConfig(logger, &cfg.App,
		handlers.NewHealthHandler(core.Health, handlers.NewBuildInfo(Version, Commit, BuildTime), prometheus.DefaultGatherer),
		handlers.NewQuoteHandler(core.Quotes),
		handlers.NewSyncHandler(core.Sync, core.Remote),
	)
	routes.Tracing = cfg.Telemetry.Enabled
	http.SetupRouter(server.Engine(), routes)

	serverErr, err := server.Start()
	if err != nil {
		return errors.Join(err, core.Close(ctx))
	}

	sched.Start()

	var runErr error

	select {
	case err := <-serverErr:
		runErr = err
	case <-ctx.Done():
		logger.Info("shutdown requested")
	}

	return errors.Join(runErr, shutdown(logger, server, sched, core, cfg.Server.ShutdownTimeout))
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// newScheduler registers the session sweep and, when sync is enabled, the
// periodic pass. The startup pass runs in the background so a slow remote
// never delays readiness.
func newScheduler(ctx context.Context, cfg *config.Config, core *bootstrap.Components, logger *slog.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(logger)

	if err := sched.Add("session-sweep", scheduler.Every(sweepInterval), scheduler.SweepJob(core.Sessions, logger)); err != nil {
		return nil, err
	}

	if !cfg.Sync.Enabled {
		return sched, nil
	}

	if err := sched.Add("sync", scheduler.Every(cfg.Sync.Interval), scheduler.SyncJob(core.Sync, logger)); err != nil {
		return nil, err
	}

	go func() {
		if _, err := core.Sync.Reconcile(ctx, app.TriggerStartup); err != nil {
			logger.Warn("startup sync failed", slog.Any("error", err))
		}
	}()

	return sched, nil
}

// shutdown stops scheduling, drains HTTP, then cancels any sync pass and
// closes storage, all within timeout.
func shutdown(logger *slog.Logger, server *http.Server, sched *scheduler.Scheduler, core *bootstrap.Components, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("shutting down", slog.Duration("timeout", timeout))

	if err := sched.Stop(ctx); err != nil {
		logger.Warn("stopping scheduler", slog.Any("error", err))
	}

	var errs []error

	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := core.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("closing application: %w", err))
	}

	if len(errs) == 0 {
		logger.Info("shutdown complete")
	}

	return errors.Join(errs...)
}
