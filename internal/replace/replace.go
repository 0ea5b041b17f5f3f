// Package replace implements the backup-rename protocol that makes a single
// rename-or-copy onto an existing path crash-tolerant.
package replace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joshuapare/txfs/pkg/types"
)

// BackupSuffix is appended to a target's path while a replacement is in
// flight. A leftover backup after a crash is harmless residue, not a
// correctness violation.
const BackupSuffix = ".old"

// ApplyFunc stages src at dst: either a rename or a content copy.
type ApplyFunc func(src, dst string) error

// Replace puts src's content or identity at dst via apply, never leaving dst
// missing if it existed beforehand and the apply fails.
//
// When dst exists it is first renamed to dst+".old", a single directory-entry
// rename the filesystem performs atomically. A successful apply then discards
// the backup best-effort; a failed apply renames the backup over dst again
// before reporting the apply error. Even if apply left a half-written dst
// behind, the restore rename replaces it. A failed restore is surfaced as
// ErrKindRestore since dst may be missing or stale afterwards.
//
// When dst does not exist, apply runs directly: there is no prior state to
// preserve.
func Replace(src, dst string, apply ApplyFunc) error {
	if _, err := os.Lstat(dst); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return &types.Error{Kind: types.ErrKindIO, Msg: "stat " + dst, Err: err}
		}
		if err := apply(src, dst); err != nil {
			return &types.Error{Kind: kindFor(err), Msg: fmt.Sprintf("apply %s -> %s", src, dst), Err: err}
		}
		return nil
	}

	backup := dst + BackupSuffix
	if err := os.Rename(dst, backup); err != nil {
		// Nothing has been touched yet, safe to report as-is.
		return &types.Error{Kind: types.ErrKindIO, Msg: fmt.Sprintf("backup %s -> %s", dst, backup), Err: err}
	}

	if applyErr := apply(src, dst); applyErr != nil {
		if restoreErr := os.Rename(backup, dst); restoreErr != nil {
			return &types.Error{
				Kind: types.ErrKindRestore,
				Msg:  fmt.Sprintf("restore %s from backup after apply failed (%v)", dst, applyErr),
				Err:  restoreErr,
			}
		}
		return &types.Error{Kind: kindFor(applyErr), Msg: fmt.Sprintf("apply %s -> %s", src, dst), Err: applyErr}
	}

	// Failure to discard the backup is swallowed.
	_ = os.Remove(backup)
	return nil
}

// kindFor classifies an apply failure.
func kindFor(err error) types.ErrKind {
	if k, ok := types.KindOf(err); ok {
		return k
	}
	if errors.Is(err, fs.ErrNotExist) {
		return types.ErrKindNotFound
	}
	return types.ErrKindIO
}
