// Package flags provides feature flag adapters.
package flags

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// Static evaluates flags from a fixed map, typically the features section of the config.
// Set allows runtime overrides, which tests and the admin CLI use.
type Static struct {
	mu    sync.RWMutex
	flags map[string]bool
}

var _ ports.FeatureFlags = (*Static)(nil)

// NewStatic creates a flag set from the given values. The map is copied.
func NewStatic(values map[string]bool) *Static {
	flags := make(map[string]bool, len(values))
	maps.Copy(flags, values)

	return &Static{flags: flags}
}

// IsEnabled returns the configured value, or defaultValue when the flag is unknown.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	value, ok := s.flags[flag]
	s.mu.RUnlock()

	if !ok {
		logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "feature flag not configured, using default",
			slog.String("flag", flag),
			slog.Bool("default", defaultValue))

		return defaultValue
	}

	return value
}

// Set overrides a single flag.
func (s *Static) Set(flag string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[flag] = enabled
}

// Names returns the configured flag names in sorted order.
func (s *Static) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.flags))
}
