// Package native binds the transaction contract to the operating system's
// transacted-file facility when one exists. Unlike the deferred engine,
// every operation is forwarded immediately under one kernel transaction
// handle, so Commit and Rollback are atomic across the whole batch.
//
// Only Windows (ktmw32.dll and the kernel32 *Transacted APIs) is supported.
// On other platforms Supported reports false and New fails with
// ErrKindUnsupported.
package native
