package ports

import "context"

// Feature flag names evaluated by the application layer.
const (
	// FlagPushOnAdd pushes each manually added quote to the remote endpoint.
	FlagPushOnAdd = "push-on-add"

	// FlagSyncAfterImport runs a reconciliation immediately after a successful import.
	FlagSyncAfterImport = "sync-after-import"

	// FlagPushOnImport pushes every imported quote to the remote endpoint.
	FlagPushOnImport = "push-on-import"
)

// FeatureFlags answers whether an optional behaviour is switched on. Unknown
// flags report defaultValue.
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
