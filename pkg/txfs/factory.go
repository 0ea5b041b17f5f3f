package txfs

import (
	"github.com/joshuapare/txfs/internal/deferred"
	"github.com/joshuapare/txfs/internal/native"
	"github.com/joshuapare/txfs/pkg/types"
)

// nativeAvailable is the platform capability, probed once at startup and
// never mutated afterwards.
var nativeAvailable = native.Supported()

// New constructs an open transaction using opts. Both engines satisfy
// types.Tx, so callers stay agnostic to which backend is active.
//
// Example:
//
//	tx, err := txfs.New(txfs.Options{Backend: txfs.BackendDeferred})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tx.Rollback()
func New(opts Options) (types.Tx, error) {
	switch opts.Backend {
	case BackendDeferred:
		return deferred.New(), nil
	case BackendNative:
		return native.New()
	default:
		if nativeAvailable {
			return native.New()
		}
		return deferred.New(), nil
	}
}

// NativeSupported reports whether BackendAuto would pick the native engine
// on this platform.
func NativeSupported() bool { return nativeAvailable }
