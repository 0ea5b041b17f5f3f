// Package txfs provides best-effort transactional filesystem operations: a
// batch of file moves, copies, and removals that either all become visible,
// or leave the filesystem as close as possible to its original state.
//
// On platforms with a kernel transaction facility the batch is forwarded to
// the OS and committed atomically. Everywhere else a deferred engine queues
// the operations and applies them sequentially on Commit, protecting each
// replacement of an existing file with a backup-rename safety net. Both
// engines expose the same types.Tx contract, so callers never care which one
// is active.
//
// Example:
//
//	tx, err := txfs.New(txfs.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tx.Move("staging/app.bin", "current/app.bin")
//	tx.Remove("current/app.bin.sig")
//	if err := tx.Commit(); err != nil {
//	    log.Fatal(err)
//	}
//
// This is not ACID: the deferred engine does not roll back operations that
// were already applied when a later one fails, and the in-memory queue is
// lost on a crash before Commit.
package txfs
