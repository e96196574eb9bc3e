// Package pathutil provides the small set of filesystem path helpers the
// unpack stage needs: ensuring storage directories exist and deriving the
// artifact-cache and per-invocation sandbox paths (spec.md §3's derived
// entities).
package pathutil

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zephir-project/zephir/internal/zerrors"
)

// DirPermissions are the default permission bits applied to directories
// Zephir creates.
const DirPermissions os.FileMode = 0775

// EnsureDir creates dir (and any missing parents) if it does not already
// exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return zerrors.IO("ensuring directory "+dir, err)
	}
	return nil
}

// PathExists returns true if path exists, as either a file or a directory.
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// ArtifactCacheDir returns the artifact-cache directory beneath a storage
// cache root.
func ArtifactCacheDir(cacheRoot string) string {
	return filepath.Join(cacheRoot, "artifact-cache")
}

// now is overridable in tests so AtomicSandboxPath's uniqueness can be
// exercised deterministically.
var now = func() int64 { return time.Now().Unix() }

// AtomicSandboxPath derives a per-invocation sandbox directory named after
// the current unix-seconds timestamp, matching
// original_source's get_atomic_sandbox_path.
func AtomicSandboxPath(sandboxRoot string) string {
	return filepath.Join(sandboxRoot, strconv.FormatInt(now(), 10))
}
