//go:build unix

package replace

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncDir best-effort fsyncs a directory so a renamed or created entry is
// durable. Failures are ignored: durability of the directory entry is an
// improvement, not part of the replace contract.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = unix.Fsync(int(f.Fd()))
}
