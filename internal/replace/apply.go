package replace

import (
	"io"
	"os"
	"path/filepath"
)

// Rename stages src at dst with a single rename, then best-effort syncs the
// destination's parent directory so the new entry survives a crash.
func Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return err
	}
	syncDir(filepath.Dir(dst))
	return nil
}

// CopyFile duplicates src's content at dst, carrying over file mode and
// timestamps. An existing dst is truncated. The data is fsynced before close
// so a reported success is durable.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// O_CREATE only applies the mode to newly created files.
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chtimes(dst, fi.ModTime(), fi.ModTime()); err != nil {
		return err
	}
	syncDir(filepath.Dir(dst))
	return nil
}
