package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/bootstrap"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// closeTimeout bounds waiting for background pushes on exit.
const closeTimeout = 10 * time.Second

// cli holds the state shared by every quotectl command.
type cli struct {
	profile   string
	dbPath    string
	remoteURL string
	offline   bool
	asJSON    bool
	verbose   bool

	core *bootstrap.Components

	// sessionID identifies this process to the session store.
	sessionID string
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Manage the local quote collection",
		Long: `quotectl reads and edits the quote collection the quote-sync service serves,
and can reconcile it with the remote endpoint.

Configuration is loaded the same way as the service: configs/base.yaml,
configs/{profile}.yaml, then APP_ environment variables.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.profile, "profile", envOr("APP_ENVIRONMENT", "local"), "configuration profile")
	flags.StringVar(&c.dbPath, "db", "", "sqlite database path (overrides storage.path)")
	flags.StringVar(&c.remoteURL, "remote", "", "remote base URL (overrides services.remote.base_url)")
	flags.BoolVar(&c.offline, "offline", false, "never contact the remote endpoint implicitly")
	flags.BoolVar(&c.asJSON, "json", false, "print machine readable JSON")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.randomCmd(),
		c.addCmd(),
		c.categoriesCmd(),
		c.listCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.syncCmd(),
		c.filterCmd(),
	)

	return root
}

// setup loads configuration and wires the application core.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c.applyOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  "pretty",
		Service: "quotectl",
		Version: Version,
	}, cmd.ErrOrStderr())

	c.sessionID = uuid.NewString()

	core, err := bootstrap.Build(cmd.Context(), cfg, logger.With(slog.String("session_id", c.sessionID)), bootstrap.Options{
		UserAgent: "quotectl/" + Version,
	})
	if err != nil {
		return err
	}

	c.core = core

	return nil
}

func (c *cli) applyOverrides(cfg *config.Config) {
	if c.dbPath != "" {
		cfg.Storage.Driver = storage.DriverSQLite
		cfg.Storage.Path = c.dbPath
	}

	if c.remoteURL != "" {
		cfg.Services.Remote.BaseURL = c.remoteURL
	}

	if c.offline {
		if cfg.Features == nil {
			cfg.Features = map[string]bool{}
		}

		cfg.Features[ports.FlagPushOnAdd] = false
		cfg.Features[ports.FlagSyncAfterImport] = false
		cfg.Features[ports.FlagPushOnImport] = false
	}
}

func (c *cli) close() error {
	if c.core == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := c.core.Close(ctx)
	c.core = nil

	return err
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
