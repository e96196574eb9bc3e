// Package wasm implements spec.md §4.6's WASM invoker: instantiate the
// entry module with its WASI stdio inherited and the sandbox directory
// preopened at "/sandbox", call its exported "_start" function, and bound
// execution by the resource config's cpuLimit.
//
// Grounded on _examples/other_examples's sandrolain-events-bridge WASM
// connector (wazero runtime setup, WASI instantiation, timeout-bound
// InstantiateModule) and original_source/src/engine/exec_engine.rs's
// invoke_wasm (wasmtime fuel metering, log message text). wazero has no
// fuel/step-metering API; see DESIGN.md for why cpuLimit is instead
// converted into a context.WithTimeout of cpuLimit seconds.
package wasm

import (
	"context"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/zephir-project/zephir/internal/zerrors"
)

// Options describes a single WASM invocation.
type Options struct {
	// ModulePath is the path to the .wasm entry module, taken as-is
	// against the host filesystem (spec.md's entry-path asymmetry: unlike
	// the script invoker, native/WASM entries are never joined onto the
	// sandbox directory).
	ModulePath string
	// SandboxDir is preopened inside the guest at "/sandbox".
	SandboxDir string
	// Name tags the start/finish log lines, e.g. "[myfunc] Starting WASM module".
	Name string
	// CPULimit, when greater than zero, bounds execution to CPULimit
	// seconds of wall-clock time (see package doc).
	CPULimit uint64
	Logger   hclog.Logger
}

// startFunc is the WASI entry point every Zephir WASM artifact must export.
const startFunc = "_start"

// Invoke compiles and runs the module described by opts.
func Invoke(opts Options) error {
	ctx := context.Background()
	if opts.CPULimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.CPULimit)*time.Second)
		defer cancel()
	}

	// Without WithCloseOnContextDone, wazero does not stop running guest
	// code when ctx's deadline passes.
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	defer rt.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return zerrors.Invocation("instantiating WASI", err)
	}

	wasmBytes, err := os.ReadFile(opts.ModulePath)
	if err != nil {
		return zerrors.IO("reading wasm module "+opts.ModulePath, err)
	}

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return zerrors.Invocation("compiling wasm module", err)
	}

	fsConfig := wazero.NewFSConfig().WithDirMount(opts.SandboxDir, "/sandbox")
	moduleConfig := wazero.NewModuleConfig().
		WithStartFunctions().
		WithStdin(os.Stdin).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithFSConfig(fsConfig)

	opts.Logger.Info("[" + opts.Name + "] Starting WASM module")

	module, err := rt.InstantiateModule(ctx, compiled, moduleConfig)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return zerrors.Invocation("wasm execution exceeded cpuLimit", ctx.Err())
		}
		return zerrors.Invocation("instantiating wasm module", err)
	}
	defer module.Close(ctx)

	if fn := module.ExportedFunction(startFunc); fn == nil {
		return zerrors.Invocation("wasm module missing _start export", errMissingStart)
	}
	// wazero calls an exported _start during InstantiateModule by default;
	// moduleConfig clears those start functions, so _start runs exactly
	// once, here.
	if _, err := module.ExportedFunction(startFunc).Call(ctx); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return zerrors.Invocation("wasm execution exceeded cpuLimit", ctx.Err())
		}
		return zerrors.Invocation("calling wasm _start", err)
	}

	opts.Logger.Info("[" + opts.Name + "] WASM module finished")
	return nil
}
