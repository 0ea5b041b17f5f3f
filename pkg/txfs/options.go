package txfs

// Backend identifies which transaction engine New constructs.
type Backend int

const (
	// BackendAuto picks the native engine when the platform has one and
	// falls back to the deferred engine otherwise.
	BackendAuto Backend = iota

	// BackendDeferred queues operations in memory and applies them
	// sequentially on Commit via the backup-rename protocol.
	BackendDeferred

	// BackendNative forwards every operation to the OS transaction
	// facility. Construction fails where none exists.
	BackendNative
)

// Options controls transaction construction.
type Options struct {
	// Backend forces a specific engine. Default: BackendAuto.
	Backend Backend
}
