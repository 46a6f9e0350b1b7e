package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dropsort/dropsort/internal/errors"
)

const (
	// dirPerm is applied to category directories on creation (rwxr-xr-x).
	dirPerm = 0o755
	// filePerm is applied to files after a successful move (rw-r--r--).
	filePerm = 0o644

	// maxProbes bounds the collision suffix search. Hitting it means the
	// category directory holds ten thousand same-named files; at that point
	// failing loudly beats looping forever.
	maxProbes = 10000
)

// ensureDir idempotently creates a directory with dirPerm permissions.
// An existing directory is left completely untouched, permissions included.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.Provisioningf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.CodeProvisioning, "stat %s", dir)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, errors.CodeProvisioning, "create %s", dir)
	}
	// MkdirAll honors the umask; chmod makes the mode exact.
	if err := os.Chmod(dir, dirPerm); err != nil {
		return errors.Wrapf(err, errors.CodeProvisioning, "chmod %s", dir)
	}
	return nil
}

// resolveUnique computes a collision-free destination path.
//
// If nothing exists at dest it is returned unchanged. Otherwise stem_N.ext is
// probed for N = 1, 2, ... and the first free path wins. Existence is
// re-checked on every probe, never cached: collisions depend on directory
// state at move time and other writers are racing us. Best effort, not
// linearizable; a racing writer grabbing the returned name between probe and
// rename surfaces as a move error on that event.
func resolveUnique(dest string) (string, error) {
	if !entryExists(dest) {
		return dest, nil
	}

	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)

	for n := 1; n <= maxProbes; n++ {
		probe := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !entryExists(probe) {
			return probe, nil
		}
	}

	return "", errors.Resolvef("no free name for %s after %d probes", dest, maxProbes)
}

// entryExists reports whether any filesystem entry exists at path.
// Lstat so dangling symlinks still count as occupied names.
func entryExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// relocate moves a file, preferring an atomic same-volume rename and falling
// back to copy+delete across volumes. The fallback never removes the source
// until the copy has fully succeeded.
func relocate(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		return copyThenDelete(src, dest)
	}

	return errors.Wrapf(err, errors.CodeMove, "rename %s to %s", src, dest)
}

// copyThenDelete implements the cross-volume fallback.
func copyThenDelete(src, dest string) error {
	in, err := os.Open(src) //#nosec G304 -- Source path comes from the watch subsystem
	if err != nil {
		return errors.Wrapf(err, errors.CodeMove, "open source %s", src)
	}
	defer in.Close()

	// O_EXCL: the destination was resolved collision-free moments ago; if
	// someone claimed it since, fail rather than overwrite.
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm) //#nosec G304
	if err != nil {
		return errors.Wrapf(err, errors.CodeMove, "create destination %s", dest)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dest) // partial copy, keep the source
		return errors.Wrapf(err, errors.CodeMove, "copy %s to %s", src, dest)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return errors.Wrapf(err, errors.CodeMove, "flush destination %s", dest)
	}

	if err := os.Remove(src); err != nil {
		// The copy landed; the duplicate source is the lesser evil versus
		// deleting data on an uncertain copy.
		return errors.Wrapf(err, errors.CodeMove, "remove source %s after copy", src)
	}

	return nil
}
