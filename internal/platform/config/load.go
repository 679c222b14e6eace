package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "APP_"

// defaults is the lowest layer. Every key a deployment may set belongs here,
// since env variable names are resolved against these keys.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quote-sync",
		"app.version":     "dev",
		"app.environment": "local",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "2m",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": 1 << 20,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quote-sync.log",
		"log.file.max_size":    100,
		"log.file.max_backups": 3,
		"log.file.max_age":     28,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quote-sync",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                3,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  2.0,
		"client.retry.jitter_factor":               0.25,
		"client.circuit_breaker.max_failures":      5,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   3,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       DefaultTransportIdleConnTimeout.String(),

		"services.remote.base_url":   "https://jsonplaceholder.typicode.com",
		"services.remote.name":       "remote-quotes",
		"services.remote.posts_path": "/posts",
		"services.remote.user_id":    1,

		"storage.driver": "sqlite",
		"storage.path":   "./data/quotes.db",

		"sync.enabled":          true,
		"sync.interval":         "30s",
		"sync.timeout":          "15s",
		"sync.push_concurrency": 4,

		"session.ttl": "30m",

		"features.push-on-add":       true,
		"features.sync-after-import": true,
		"features.push-on-import":    false,
	}
}

// Load reads the configuration for profile from ./configs.
func Load(profile string) (*Config, error) {
	return LoadDir("configs", profile)
}

// LoadDir layers, lowest first: defaults, dir/base.yaml, dir/{profile}.yaml,
// then APP_ environment variables. A ./.env file feeds the environment without
// replacing variables that are already set. Missing files are skipped.
func LoadDir(dir, profile string) (*Config, error) {
	if err := ignoreMissing(godotenv.Load(".env")); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	base := defaults()

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(base, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{filepath.Join(dir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(dir, profile+".yaml"))
	}

	for _, path := range files {
		if err := ignoreMissing(k.Load(file.Provider(path), yaml.Parser())); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyResolver(base)), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// envKeyResolver maps APP_SYNC_PUSH_CONCURRENCY to sync.push_concurrency.
// Underscores are ambiguous, so names are matched against the known keys
// first; unknown names fall back to treating every underscore as a level.
func envKeyResolver(known map[string]any) func(string) string {
	byEnvName := make(map[string]string, len(known))
	for key := range known {
		byEnvName[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := byEnvName[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

func ignoreMissing(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
