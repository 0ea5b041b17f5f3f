//go:build windows

package native

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/joshuapare/txfs/internal/compare"
	"github.com/joshuapare/txfs/internal/replace"
	"github.com/joshuapare/txfs/pkg/types"
)

var (
	modktmw32   = windows.NewLazySystemDLL("ktmw32.dll")
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procCreateTransaction          = modktmw32.NewProc("CreateTransaction")
	procCommitTransaction          = modktmw32.NewProc("CommitTransaction")
	procRollbackTransaction        = modktmw32.NewProc("RollbackTransaction")
	procMoveFileTransactedW        = modkernel32.NewProc("MoveFileTransactedW")
	procCopyFileTransactedW        = modkernel32.NewProc("CopyFileTransactedW")
	procDeleteFileTransactedW      = modkernel32.NewProc("DeleteFileTransactedW")
	procRemoveDirectoryTransactedW = modkernel32.NewProc("RemoveDirectoryTransactedW")
)

// Supported reports whether the kernel transaction manager and the transacted
// file APIs are present (Vista and later, NTFS).
func Supported() bool {
	return procCreateTransaction.Find() == nil &&
		procCommitTransaction.Find() == nil &&
		procRollbackTransaction.Find() == nil &&
		procMoveFileTransactedW.Find() == nil &&
		procCopyFileTransactedW.Find() == nil &&
		procDeleteFileTransactedW.Find() == nil &&
		procRemoveDirectoryTransactedW.Find() == nil
}

// Tx forwards every operation to one kernel transaction. Nothing becomes
// visible to other readers until Commit.
type Tx struct {
	handle     windows.Handle
	committed  bool
	rolledBack bool
}

// New opens a kernel transaction handle.
func New() (types.Tx, error) {
	if !Supported() {
		return nil, types.ErrUnsupported
	}
	h, _, callErr := procCreateTransaction.Call(0, 0, 0, 0, 0, 0, 0)
	if windows.Handle(h) == windows.InvalidHandle {
		return nil, &types.Error{Kind: types.ErrKindIO, Msg: "create kernel transaction", Err: callErr}
	}
	return &Tx{handle: windows.Handle(h)}, nil
}

func (tx *Tx) checkState() error {
	if tx.committed {
		return &types.Error{Kind: types.ErrKindState, Msg: "transaction already committed"}
	}
	if tx.rolledBack {
		return &types.Error{Kind: types.ErrKindState, Msg: "transaction already rolled back"}
	}
	return nil
}

// Move replaces target with source inside the kernel transaction, using the
// same .old backup dance as the deferred engine so crashes between the two
// renames still leave a recoverable target. When source and target are
// already byte-identical the move degenerates to removing source.
func (tx *Tx) Move(source, target string) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	if !compare.FilesDiffer(source, target) {
		return tx.Remove(source)
	}
	return tx.applyWithBackup(source, target, types.OpMove, tx.moveTransacted)
}

// Copy duplicates source at target inside the kernel transaction, with the
// same backup dance and identical-content skip as Move. The source is kept.
func (tx *Tx) Copy(source, target string) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	if !compare.FilesDiffer(source, target) {
		return nil
	}
	return tx.applyWithBackup(source, target, types.OpCopy, tx.copyTransacted)
}

// Remove deletes target (file or directory) inside the kernel transaction.
func (tx *Tx) Remove(target string) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	fi, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &types.Error{Kind: types.ErrKindNotFound, Msg: "remove " + target, Err: err}
		}
		return &types.Error{Kind: types.ErrKindIO, Msg: "remove " + target, Err: err}
	}
	if fi.IsDir() {
		if err := tx.removeDirectoryTransacted(target); err != nil {
			return &types.Error{Kind: types.ErrKindIO, Msg: "remove " + target, Err: err}
		}
		return nil
	}
	if err := tx.deleteTransacted(target); err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: "remove " + target, Err: err}
	}
	return nil
}

// Commit makes the whole batch visible atomically and releases the handle.
func (tx *Tx) Commit() error {
	if err := tx.checkState(); err != nil {
		return err
	}
	tx.committed = true
	defer windows.CloseHandle(tx.handle)

	r1, _, callErr := procCommitTransaction.Call(uintptr(tx.handle))
	if r1 == 0 {
		return &types.Error{Kind: types.ErrKindIO, Msg: "commit kernel transaction", Err: callErr}
	}
	return nil
}

// Rollback discards every forwarded operation and releases the handle.
func (tx *Tx) Rollback() error {
	if err := tx.checkState(); err != nil {
		return err
	}
	tx.rolledBack = true
	defer windows.CloseHandle(tx.handle)

	r1, _, callErr := procRollbackTransaction.Call(uintptr(tx.handle))
	if r1 == 0 {
		return &types.Error{Kind: types.ErrKindIO, Msg: "roll back kernel transaction", Err: callErr}
	}
	return nil
}

// applyWithBackup runs the backup-rename protocol with a transacted apply
// primitive. The kernel transaction already guarantees all-or-nothing at
// commit; the .old backup additionally keeps the target recoverable if the
// batch is committed after a partial overwrite was forwarded.
func (tx *Tx) applyWithBackup(source, target string, kind types.OpKind, apply func(src, dst string) error) error {
	wrap := func(err error) error {
		return &types.Error{
			Kind: kindFor(err),
			Msg:  fmt.Sprintf("%s %s -> %s", kind, source, target),
			Err:  err,
		}
	}

	if _, err := os.Lstat(target); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return wrap(err)
		}
		if err := apply(source, target); err != nil {
			return wrap(err)
		}
		return nil
	}

	backup := target + replace.BackupSuffix
	if err := tx.moveTransacted(target, backup); err != nil {
		return wrap(err)
	}
	if err := apply(source, target); err != nil {
		if restoreErr := tx.moveTransacted(backup, target); restoreErr != nil {
			return &types.Error{
				Kind: types.ErrKindRestore,
				Msg:  fmt.Sprintf("restore %s from backup after apply failed (%v)", target, err),
				Err:  restoreErr,
			}
		}
		return wrap(err)
	}
	// Failure to discard the backup is swallowed.
	_ = tx.deleteTransacted(backup)
	return nil
}

func kindFor(err error) types.ErrKind {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, windows.ERROR_FILE_NOT_FOUND) || errors.Is(err, windows.ERROR_PATH_NOT_FOUND) {
		return types.ErrKindNotFound
	}
	return types.ErrKindIO
}

func (tx *Tx) moveTransacted(src, dst string) error {
	srcPtr, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	dstPtr, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	r1, _, callErr := procMoveFileTransactedW.Call(
		uintptr(unsafe.Pointer(srcPtr)),
		uintptr(unsafe.Pointer(dstPtr)),
		0, // progress routine
		0, // progress data
		uintptr(windows.MOVEFILE_REPLACE_EXISTING),
		uintptr(tx.handle),
	)
	if r1 == 0 {
		return callErr
	}
	return nil
}

func (tx *Tx) copyTransacted(src, dst string) error {
	srcPtr, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	dstPtr, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	r1, _, callErr := procCopyFileTransactedW.Call(
		uintptr(unsafe.Pointer(srcPtr)),
		uintptr(unsafe.Pointer(dstPtr)),
		0, // progress routine
		0, // progress data
		0, // cancel flag
		0, // copy flags
		uintptr(tx.handle),
	)
	if r1 == 0 {
		return callErr
	}
	return nil
}

func (tx *Tx) deleteTransacted(target string) error {
	targetPtr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return err
	}
	r1, _, callErr := procDeleteFileTransactedW.Call(
		uintptr(unsafe.Pointer(targetPtr)),
		uintptr(tx.handle),
	)
	if r1 == 0 {
		return callErr
	}
	return nil
}

func (tx *Tx) removeDirectoryTransacted(target string) error {
	targetPtr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return err
	}
	r1, _, callErr := procRemoveDirectoryTransactedW.Call(
		uintptr(unsafe.Pointer(targetPtr)),
		uintptr(tx.handle),
	)
	if r1 == 0 {
		return callErr
	}
	return nil
}
