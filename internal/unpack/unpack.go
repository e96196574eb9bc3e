// Package unpack implements spec.md §4.4's five-step unpack stage: ensure
// the storage roots exist, populate the artifact cache on a miss (guarded
// by a file lock so concurrent invocations of the same bundle don't race),
// and materialize a fresh per-invocation sandbox directory.
//
// Grounded on original_source/src/engine/exec_engine.rs's `unpack` method;
// the cache-population lock is grounded on the teacher's use of
// github.com/nightlyone/lockfile in internal/daemon/connector for
// PID-file-style advisory locking, re-homed here for a different purpose.
package unpack

import (
	"path/filepath"

	"github.com/nightlyone/lockfile"

	"github.com/zephir-project/zephir/internal/archive"
	"github.com/zephir-project/zephir/internal/pathutil"
	"github.com/zephir-project/zephir/internal/zerrors"
)

// Options carries the inputs unpack.Run needs from a ZephirConfig.
type Options struct {
	// BundlePath is the path to the compressed function bundle.
	BundlePath string
	// CacheRoot is storage.cache.
	CacheRoot string
	// SandboxRoot is storage.sandbox.
	SandboxRoot string
	// NoCache bypasses the artifact cache, decompressing straight into the
	// sandbox directory.
	NoCache bool
}

// Run performs the unpack stage and returns the sandbox directory the
// bundle was materialized into.
func Run(opts Options) (string, error) {
	if err := pathutil.EnsureDir(opts.CacheRoot); err != nil {
		return "", err
	}
	if err := pathutil.EnsureDir(opts.SandboxRoot); err != nil {
		return "", err
	}

	artifactCacheDir := pathutil.ArtifactCacheDir(opts.CacheRoot)
	sandboxPath := pathutil.AtomicSandboxPath(opts.SandboxRoot)

	if opts.NoCache {
		if err := archive.DecompressToDir(opts.BundlePath, sandboxPath); err != nil {
			return "", err
		}
		return sandboxPath, nil
	}

	if !pathutil.PathExists(artifactCacheDir) {
		if err := populateCache(opts.BundlePath, artifactCacheDir); err != nil {
			return "", err
		}
	}

	if err := copyDirRecursive(artifactCacheDir, sandboxPath); err != nil {
		return "", zerrors.IO("copying artifact cache into sandbox", err)
	}

	return sandboxPath, nil
}

// populateCache decompresses bundlePath into cacheDir, holding a lock file
// alongside cacheDir for the duration so two invocations unpacking the same
// bundle concurrently can't interleave writes into the same cache directory.
// A lock contention failure is surfaced as an I/O error rather than being
// fatal: callers may retry via NoCache to decompress straight to a sandbox,
// bypassing the cache entirely.
func populateCache(bundlePath string, cacheDir string) error {
	absLockPath, err := filepath.Abs(cacheDir + ".lock")
	if err != nil {
		return zerrors.IO("resolving cache lock path", err)
	}
	lock, err := lockfile.New(absLockPath)
	if err != nil {
		return zerrors.IO("creating cache lock", err)
	}
	if err := lock.TryLock(); err != nil {
		return zerrors.IO("acquiring cache lock", err)
	}
	defer lock.Unlock()

	// Re-check after acquiring the lock: another process may have
	// populated the cache between Run's existence check and TryLock.
	if pathutil.PathExists(cacheDir) {
		return nil
	}

	return archive.DecompressToDir(bundlePath, cacheDir)
}
