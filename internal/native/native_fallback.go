//go:build !windows

package native

import "github.com/joshuapare/txfs/pkg/types"

// Supported reports whether an OS transaction facility is available.
func Supported() bool { return false }

// New always fails on platforms without kernel transaction support.
func New() (types.Tx, error) {
	return nil, types.ErrUnsupported
}
