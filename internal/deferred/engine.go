// Package deferred implements the software transaction engine. Operations
// are queued in memory and applied sequentially on Commit, each one wrapped
// in the backup-rename protocol. A crash before Commit loses only the queue,
// never filesystem state.
package deferred

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joshuapare/txfs/internal/compare"
	"github.com/joshuapare/txfs/internal/replace"
	"github.com/joshuapare/txfs/pkg/types"
)

// Tx accumulates operations and applies them on Commit in enqueue order.
// The real filesystem reflects none of the queued operations until then.
type Tx struct {
	pending    []types.Op
	committed  bool
	rolledBack bool
}

// New returns an open transaction with an empty queue.
func New() *Tx {
	return &Tx{}
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

// Move schedules source to replace target. When the two files are already
// byte-identical the move is redundant and degenerates to removing source.
func (tx *Tx) Move(source, target string) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	if !compare.FilesDiffer(source, target) {
		tx.pending = append(tx.pending, types.Op{Kind: types.OpRemove, Target: source})
		return nil
	}
	tx.pending = append(tx.pending, types.Op{Kind: types.OpMove, Source: source, Target: target})
	return nil
}

// Copy schedules source's content to be duplicated at target. When the two
// files are already byte-identical nothing is scheduled.
func (tx *Tx) Copy(source, target string) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	if !compare.FilesDiffer(source, target) {
		return nil
	}
	tx.pending = append(tx.pending, types.Op{Kind: types.OpCopy, Source: source, Target: target})
	return nil
}

// Remove schedules target for deletion. Existence is checked at commit time.
func (tx *Tx) Remove(target string) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	tx.pending = append(tx.pending, types.Op{Kind: types.OpRemove, Target: target})
	return nil
}

// Commit applies the queue in enqueue order; later operations may assume
// earlier ones already happened. The transaction becomes terminal before
// the first operation runs, so a mid-batch failure leaves earlier operations
// applied and the failing one reported; nothing is rolled back.
func (tx *Tx) Commit() error {
	if err := tx.checkState(); err != nil {
		return err
	}
	tx.committed = true

	ops := tx.pending
	tx.pending = nil
	for _, op := range ops {
		if err := applyOp(op); err != nil {
			return err
		}
	}
	return nil
}

// Rollback discards the queue without touching the filesystem.
func (tx *Tx) Rollback() error {
	if err := tx.checkState(); err != nil {
		return err
	}
	tx.rolledBack = true
	tx.pending = nil
	return nil
}

// applyOp dispatches one queued operation.
func applyOp(op types.Op) error {
	switch op.Kind {
	case types.OpMove:
		if err := replace.Replace(op.Source, op.Target, replace.Rename); err != nil {
			return opError(op, err)
		}
	case types.OpCopy:
		if err := replace.Replace(op.Source, op.Target, replace.CopyFile); err != nil {
			return opError(op, err)
		}
	case types.OpRemove:
		// Removes both files and empty directories.
		if err := os.Remove(op.Target); err != nil {
			return opError(op, err)
		}
	}
	return nil
}

// opError tags err with the logical operation that failed so commit failures
// identify the offending source/target pair.
func opError(op types.Op, err error) error {
	msg := op.Kind.String() + " " + op.Target
	if op.Source != "" {
		msg = fmt.Sprintf("%s %s -> %s", op.Kind, op.Source, op.Target)
	}
	kind := types.ErrKindIO
	if k, ok := types.KindOf(err); ok {
		kind = k
	} else if errors.Is(err, fs.ErrNotExist) {
		kind = types.ErrKindNotFound
	}
	return &types.Error{Kind: kind, Msg: msg, Err: err}
}
