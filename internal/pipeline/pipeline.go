// Package pipeline drives spec.md §4's end-to-end invocation: unpack the
// bundle into a fresh sandbox directory, enforce OS resource limits on this
// process, dispatch to the artifact-specific invoker, and unconditionally
// clean up the sandbox directory afterwards — including when the run is
// cut short by a signal.
//
// The signal-racing shape is grounded on the teacher's internal/cmd/root.go
// RunWithArgs (select over a done channel and internal/signals.Watcher's
// Done channel, with cleanup guaranteed on both paths).
package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/zephir-project/zephir/internal/invoke/native"
	"github.com/zephir-project/zephir/internal/invoke/script"
	"github.com/zephir-project/zephir/internal/invoke/wasm"
	"github.com/zephir-project/zephir/internal/sandbox"
	"github.com/zephir-project/zephir/internal/signals"
	"github.com/zephir-project/zephir/internal/unpack"
	"github.com/zephir-project/zephir/internal/zephirconfig"
	"github.com/zephir-project/zephir/internal/zerrors"
)

// Options carries everything Run needs beyond the parsed config.
type Options struct {
	Config *zephirconfig.ZephirConfig
	// NoCache bypasses the artifact cache during unpack.
	NoCache bool
	Logger  hclog.Logger
	Watcher *signals.Watcher
}

// Run executes the full UNPACK -> ENFORCE -> INVOKE -> CLEANUP pipeline for
// a single function invocation (the `run` verb) and returns once it
// completes, fails, or is interrupted by a signal. The sandbox directory is
// always removed before Run returns, regardless of which of those three
// outcomes occurred.
func Run(opts Options) error {
	return withSignalRace(opts, func() error {
		cfg := opts.Config
		sandboxPath, err := unpack.Run(unpack.Options{
			BundlePath:  cfg.Function.Bundle.PackagePath,
			CacheRoot:   cfg.Storage.Cache,
			SandboxRoot: cfg.Storage.Sandbox,
			NoCache:     opts.NoCache,
		})
		if err != nil {
			return err
		}
		return enforceAndInvoke(opts, sandboxPath)
	})
}

// RunOnSandbox executes ENFORCE -> INVOKE -> CLEANUP against a sandbox
// directory that was already materialized by a prior `unpack` verb (the
// `invoke` verb). Unlike Run, it does not perform UNPACK.
func RunOnSandbox(opts Options, sandboxPath string) error {
	return withSignalRace(opts, func() error {
		return enforceAndInvoke(opts, sandboxPath)
	})
}

// withSignalRace runs fn on its own goroutine and races its completion
// against opts.Watcher's signal-driven Done channel, returning whichever
// comes first.
func withSignalRace(opts Options, fn func() error) error {
	doneCh := make(chan struct{})
	var runErr error
	go func() {
		runErr = fn()
		close(doneCh)
	}()

	select {
	case <-doneCh:
		return runErr
	case <-opts.Watcher.Done():
		return zerrors.Invocation("invocation interrupted by signal", errInterrupted)
	}
}

func enforceAndInvoke(opts Options, sandboxPath string) error {
	cfg := opts.Config

	// CLEANUP: the sandbox directory is removed on every exit path from
	// this point on, success or failure alike.
	opts.Watcher.AddOnClose(func() { cleanupSandbox(opts.Logger, sandboxPath) })
	defer cleanupSandbox(opts.Logger, sandboxPath)

	limits := sandbox.Limits{
		CPUSeconds:    cfg.Function.Resources.CPULimit,
		MemoryBytes:   cfg.Function.Resources.Memory,
		FileSizeBytes: cfg.Function.Resources.Storage,
	}
	isRoot := sandbox.HasRootPrivilege()
	if err := sandbox.Apply(isRoot, sandboxPath, limits); err != nil {
		return zerrors.IO("applying sandbox limits", err)
	}

	return invoke(opts, sandboxPath)
}

func invoke(opts Options, sandboxPath string) error {
	cfg := opts.Config
	name := cfg.Name

	switch cfg.Function.Bundle.ArtifactType {
	case zephirconfig.ArtifactNative:
		return native.Invoke(native.Options{
			Entry:      cfg.Function.App.Entry,
			SandboxDir: sandboxPath,
			Name:       name,
			Logger:     opts.Logger,
		})
	case zephirconfig.ArtifactWasm:
		return wasm.Invoke(wasm.Options{
			ModulePath: cfg.Function.App.Entry,
			SandboxDir: sandboxPath,
			Name:       name,
			CPULimit:   cfg.Function.Resources.CPULimit,
			Logger:     opts.Logger,
		})
	case zephirconfig.ArtifactLua:
		return script.Invoke(script.Options{
			Entry:      cfg.Function.App.Entry,
			SandboxDir: sandboxPath,
			Name:       name,
			Logger:     opts.Logger,
		})
	default:
		return zerrors.Invocation(fmt.Sprintf("unknown artifact type %q", cfg.Function.Bundle.ArtifactType), errUnknownArtifact)
	}
}

func cleanupSandbox(logger hclog.Logger, sandboxPath string) {
	if err := os.RemoveAll(sandboxPath); err != nil {
		logger.Warn("failed to clean up sandbox directory", "path", sandboxPath, "error", err)
	}
}

var (
	errInterrupted     = errors.New("interrupted")
	errUnknownArtifact = errors.New("unknown artifact type")
)
