//go:build !unix

package replace

// syncDir is a no-op on platforms without directory fsync semantics.
// On Windows, rename durability is handled by the filesystem itself.
func syncDir(string) {}
