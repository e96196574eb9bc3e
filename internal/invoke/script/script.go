// Package script implements spec.md §4.7's Lua invoker: load the entry
// script from the sandbox directory into a restricted gopher-lua VM, inject
// a sandbox_path global and a print global that forwards to the function's
// logger, and execute it as a single chunk.
//
// Grounded on original_source/src/engine/exec_engine.rs's invoke_lua
// (StdLib::ALL_SAFE VM, sandbox_path/print globals, "user_script" chunk
// name, "[Lua] ..." print tagging, "[{name}] Starting Lua script" log line).
package script

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	lua "github.com/yuin/gopher-lua"

	"github.com/zephir-project/zephir/internal/zerrors"
)

// userScriptChunkName matches the Rust original's chunk.set_name("user_script"),
// so Lua errors report against "user_script" rather than a host filesystem path.
const userScriptChunkName = "user_script"

// Options describes a single Lua invocation.
type Options struct {
	// Entry is the script's path relative to SandboxDir.
	Entry string
	// SandboxDir is injected into the VM as the sandbox_path global.
	SandboxDir string
	// Name tags the "Starting Lua script" log line.
	Name   string
	Logger hclog.Logger
}

// Invoke loads and runs the entry script inside a sandboxed Lua VM.
func Invoke(opts Options) error {
	scriptPath := filepath.Join(opts.SandboxDir, opts.Entry)

	// gopher-lua has no direct StdLib::ALL_SAFE equivalent; the loop below
	// opens libraries one by one and omits os/io, the two stdlib packages the Rust original's ALL_SAFE
	// profile also excludes, leaving base/table/string/math available.
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer l.Close()
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := l.CallByParam(lua.P{Fn: l.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return zerrors.Invocation("opening lua library "+lib.name, err)
		}
	}

	l.SetGlobal("sandbox_path", lua.LString(opts.SandboxDir))
	l.SetGlobal("print", l.NewFunction(func(state *lua.LState) int {
		msg := state.ToString(1)
		opts.Logger.Info("[Lua] " + msg)
		return 0
	}))

	chunk, err := loadChunk(l, scriptPath)
	if err != nil {
		return zerrors.IO("reading lua entry "+scriptPath, err)
	}

	opts.Logger.Info("[" + opts.Name + "] Starting Lua script")

	l.Push(chunk)
	if err := l.PCall(0, lua.MultRet, nil); err != nil {
		return zerrors.Invocation("executing lua script", err)
	}
	return nil
}

// loadChunk compiles the script at path as a chunk named "user_script",
// matching the Rust original's chunk naming for error messages.
func loadChunk(l *lua.LState, path string) (*lua.LFunction, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(strings.NewReader(string(src)), userScriptChunkName)
}
