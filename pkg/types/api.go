// Package types defines the API surface shared by every txfs backend: the
// transaction contract, the queued-operation model, and the error taxonomy.
//
// This package only exposes interfaces and core types. The backends live in
// internal packages and are constructed through the pkg/txfs factory.
package types

import "errors"

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindIO          ErrKind = iota // rename/copy/delete syscall failure
	ErrKindNotFound                   // source/target missing when required to exist
	ErrKindRestore                    // restore-from-backup failed after a failed apply
	ErrKindState                      // invalid operation for current state (e.g., already committed)
	ErrKindUnsupported                // backend not available on this platform
)

// Error is the concrete error type returned by transaction operations.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the ErrKind carried by err. The second return is false when
// err (and its chain) carries no txfs error.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing source or target path.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrUnsupported indicates the platform has no kernel transaction facility.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "kernel transactions not supported on this platform"}
)

// -----------------------------------------------------------------------------
// Operation model
// -----------------------------------------------------------------------------

// OpKind tags a queued filesystem operation.
type OpKind uint8

const (
	OpMove OpKind = iota
	OpCopy
	OpRemove
)

// String returns the lowercase verb for the operation kind.
func (k OpKind) String() string {
	switch k {
	case OpMove:
		return "move"
	case OpCopy:
		return "copy"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Op describes one deferred filesystem action. Source is empty for removes.
// An Op is immutable once enqueued and owned by the transaction's queue.
type Op struct {
	Kind   OpKind
	Source string
	Target string
}

// -----------------------------------------------------------------------------
// Transaction contract
// -----------------------------------------------------------------------------

// Tx is the transaction contract shared by the deferred and native backends.
//
// A Tx starts Open; exactly one call to Commit or Rollback moves it to a
// terminal state. Any operation after a terminal state, including a second
// Commit or Rollback, returns an *Error with ErrKindState. A Tx mutates its
// queue and state in place and is not safe for concurrent use without
// external locking.
type Tx interface {
	// Move schedules source to replace target. When the two files are
	// already byte-identical the move is redundant and degenerates to a
	// removal of source.
	Move(source, target string) error

	// Copy schedules source's content to be duplicated at target, carrying
	// over file mode and timestamps. When the two files are already
	// byte-identical the call schedules nothing.
	Copy(source, target string) error

	// Remove schedules target for deletion. Existence is checked when the
	// operation is applied, not when it is enqueued.
	Remove(target string) error

	// Commit applies the batch in enqueue order. On failure the returned
	// error identifies the first failing operation; operations applied
	// before it remain applied. The transaction is terminal afterwards
	// whether or not every operation succeeded.
	Commit() error

	// Rollback discards the batch without touching the filesystem. It fails
	// only on contract misuse (transaction already terminal), never for I/O
	// reasons.
	Rollback() error
}
