// Package native implements spec.md §4.5's native invoker: spawn the
// function's entry binary with the sandbox directory as its working
// directory, stream stdout at info level and stderr at error level (both
// tagged with the function name), and map a non-zero exit to an invocation
// error.
//
// Grounded on original_source/src/engine/exec_engine.rs's invoke_native
// (concurrent line-by-line reads over stdout/stderr, "[{name}_info]" /
// "[{name}_error]" tagging) and the teacher's internal/process (child
// process spawn/wait, ChildExit's exit-code-to-error mapping) and
// internal/logstreamer (line-buffered io.Writer) packages, reused here
// rather than duplicated.
package native

import (
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/zephir-project/zephir/internal/logstreamer"
	"github.com/zephir-project/zephir/internal/process"
	"github.com/zephir-project/zephir/internal/zerrors"
)

// Options describes a single native invocation.
type Options struct {
	// Entry is the path to the executable, taken as-is against the host
	// filesystem (spec.md's entry-path asymmetry: unlike the script
	// invoker, native/WASM entries are never joined onto the sandbox
	// directory).
	Entry string
	Args  []string
	// SandboxDir becomes the child process's working directory.
	SandboxDir string
	// Name tags every streamed log line, e.g. "[myfunc_info]".
	Name string
	Logger hclog.Logger
}

// Invoke spawns and waits for the entry binary, streaming its output
// through Options.Logger. A non-zero exit status is returned as a
// zerrors.KindInvocation error.
func Invoke(opts Options) error {
	cmd := exec.Command(opts.Entry, opts.Args...)
	cmd.Dir = opts.SandboxDir

	infoLogger := log.New(&hclogLineWriter{logger: opts.Logger, tag: opts.Name + "_info", info: true}, "", 0)
	errLogger := log.New(&hclogLineWriter{logger: opts.Logger, tag: opts.Name + "_error", info: false}, "", 0)

	// A prefix other than the literal "stdout"/"stderr" opts the streamer
	// out of logstreamer's own color-tagging, since tagging is done by
	// hclogLineWriter below instead.
	stdoutStreamer := logstreamer.NewLogstreamer(infoLogger, opts.Name+"_info", false)
	stderrStreamer := logstreamer.NewLogstreamer(errLogger, opts.Name+"_error", false)
	defer stdoutStreamer.Close()
	defer stderrStreamer.Close()

	cmd.Stdout = stdoutStreamer
	cmd.Stderr = stderrStreamer

	manager := process.NewManager(opts.Logger)
	if err := manager.Exec(cmd); err != nil {
		if _, ok := err.(*process.ChildExit); ok {
			return zerrors.Invocation("native process exited non-zero", err)
		}
		return zerrors.IO("running native process", err)
	}
	return nil
}

// hclogLineWriter adapts a complete line handed to it by logstreamer's
// line-buffering into a tagged hclog call, e.g. "[myfunc_info] hello".
type hclogLineWriter struct {
	logger hclog.Logger
	tag    string
	info   bool
}

func (w *hclogLineWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	msg := fmt.Sprintf("[%s] %s", w.tag, line)
	if w.info {
		w.logger.Info(msg)
	} else {
		w.logger.Error(msg)
	}
	return len(p), nil
}
