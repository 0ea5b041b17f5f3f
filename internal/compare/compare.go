// Package compare decides whether two files are byte-identical so that
// redundant copies and moves can be skipped.
package compare

import (
	"bytes"
	"io"
	"os"
)

// chunkSize is the read granularity for content comparison.
const chunkSize = 256 * 1024

// FilesDiffer reports whether a and b have different content. Any stat or
// read error counts as a difference, so the caller performs the operation
// instead of silently skipping it.
func FilesDiffer(a, b string) bool {
	statA, err := os.Stat(a)
	if err != nil {
		return true
	}
	statB, err := os.Stat(b)
	if err != nil {
		return true
	}
	if statA.Size() != statB.Size() {
		return true
	}

	fa, err := os.Open(a)
	if err != nil {
		return true
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return true
	}
	defer fb.Close()

	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)
	for {
		nA, errA := io.ReadFull(fa, bufA)
		nB, errB := io.ReadFull(fb, bufB)
		if nA != nB || !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return true
		}
		switch {
		case errA == io.EOF && errB == io.EOF:
			return false
		case errA == io.ErrUnexpectedEOF && errB == io.ErrUnexpectedEOF:
			// Both hit a short final chunk of the same length.
			return false
		case errA != nil || errB != nil:
			// One stream ended early, or a real read error occurred.
			return true
		}
	}
}
