// Package process supervises the single OS process spawned for a NATIVE
// function invocation: start it, stream its lifecycle into exit codes, and
// guarantee it is signaled and reaped when the invocation is interrupted.
package process

/**
 * Derived from the child-process supervisor at
 * https://github.com/hashicorp/consul-template/tree/3ea7d99ad8eff17897e0d63dac86d74770170bb8/child/child.go
 *
 * Zephir only ever runs one function process per invocation and never
 * restarts it, so the restart plumbing, the configurable splay delay (a
 * thundering-herd mitigation for a supervisor managing many long-lived
 * processes at once) and the run-timeout / StopImmediately variants were
 * removed; what remains is the signal/kill/reap machinery a sandboxed
 * function invocation actually needs, renamed for that single purpose.
 */

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrMissingCommand is returned when no command is specified to run.
	ErrMissingCommand = errors.New("missing command")

	// ExitCodeOK is the exit code reported for a function process that
	// exited cleanly.
	ExitCodeOK = 0

	// ExitCodeError is the exit code reported when waiting on a function
	// process fails with an error that carries no exit status. A process
	// killed by a signal reports -1 instead.
	ExitCodeError = 127
)

// Child supervises one spawned function process: sending it signals and
// observing its exit.
type Child struct {
	sync.RWMutex

	killSignal  os.Signal
	killTimeout time.Duration

	// cmd is the function process under supervision.
	cmd *exec.Cmd

	// exitCh delivers the process's exit code exactly once.
	exitCh chan int

	// stopLock guards stopCh/stopped so Stop and the exit-watcher goroutine
	// agree on whether a shutdown was already requested.
	stopLock sync.RWMutex
	stopCh   chan struct{}
	stopped  bool

	// setpgid controls whether the process is placed in its own process
	// group so a single signal reaches any children it spawns too.
	setpgid bool

	// Label identifies this process in log output: its working directory
	// (the sandbox path) and its command line.
	Label string

	logger hclog.Logger
}

// NewInput is input to newChild.
type NewInput struct {
	// Cmd is the unstarted, preconfigured function process to run.
	Cmd *exec.Cmd

	// KillSignal is the signal sent to gracefully stop the process. May be
	// nil, in which case only a hard kill is attempted.
	KillSignal os.Signal

	// KillTimeout bounds how long to wait for a graceful stop before
	// force-killing the process.
	KillTimeout time.Duration

	// Logger receives debug log lines about the process's lifecycle.
	Logger hclog.Logger
}

// newChild wraps an unstarted *exec.Cmd for supervision.
func newChild(i NewInput) (*Child, error) {
	// exec.Command prepends the command to be run to the arguments list, so
	// we only need the arguments here, it will include the command itself.
	label := fmt.Sprintf("(%v) %v", i.Cmd.Dir, strings.Join(i.Cmd.Args, " "))
	child := &Child{
		cmd:         i.Cmd,
		killSignal:  i.KillSignal,
		killTimeout: i.KillTimeout,
		stopCh:      make(chan struct{}, 1),
		setpgid:     true,
		Label:       label,
		logger:      i.Logger.Named(label),
	}

	return child, nil
}

// ExitCh returns the channel the process's exit code is delivered on.
func (c *Child) ExitCh() <-chan int {
	c.RLock()
	defer c.RUnlock()
	return c.exitCh
}

// Pid returns the pid of the function process, or 0 if it isn't running.
func (c *Child) Pid() int {
	c.RLock()
	defer c.RUnlock()
	return c.pid()
}

// Command returns the human-formatted command with arguments.
func (c *Child) Command() string {
	return c.Label
}

// Start starts the function process. Its exit code is later delivered over
// ExitCh.
func (c *Child) Start() error {
	c.Lock()
	defer c.Unlock()
	return c.start()
}

// Signal delivers s to the function process.
func (c *Child) Signal(s os.Signal) error {
	c.logger.Debug("receiving signal %q", s.String())
	c.RLock()
	defer c.RUnlock()
	return c.signal(s)
}

// Kill stops the function process, force-killing it if it does not
// gracefully exit within KillTimeout. It returns once the process has
// exited or a force-kill has been sent; it does not wait for the
// force-killed process to be reaped.
func (c *Child) Kill() {
	c.logger.Debug("killing process")
	c.Lock()
	defer c.Unlock()
	c.kill()
}

// Stop behaves like Kill, but also marks the process as intentionally
// stopped so its exit is not reported back over ExitCh. Used when an
// invocation is being torn down by a signal rather than by the function
// process exiting on its own.
func (c *Child) Stop() {
	c.Lock()
	defer c.Unlock()

	c.stopLock.Lock()
	defer c.stopLock.Unlock()
	if c.stopped {
		return
	}
	c.kill()
	close(c.stopCh)
	c.stopped = true
}

func (c *Child) start() error {
	setSetpgid(c.cmd, c.setpgid)
	if err := c.cmd.Start(); err != nil {
		return err
	}

	exitCh := make(chan int, 1)
	go func() {
		var code int
		c.RLock()
		cmd := c.cmd
		c.RUnlock()
		var err error
		if cmd != nil {
			err = cmd.Wait()
		}
		if err == nil {
			code = ExitCodeOK
		} else {
			code = ExitCodeError
			if exiterr, ok := err.(*exec.ExitError); ok {
				if status, ok := exiterr.Sys().(syscall.WaitStatus); ok {
					code = status.ExitStatus()
				}
			}
		}

		// If the process is being torn down via Stop, its exit code was not
		// requested and must not be delivered.
		c.stopLock.RLock()
		defer c.stopLock.RUnlock()
		if !c.stopped {
			select {
			case <-c.stopCh:
			case exitCh <- code:
			}
		}

		close(exitCh)
	}()

	c.exitCh = exitCh
	return nil
}

func (c *Child) pid() int {
	if !c.running() {
		return 0
	}
	return c.cmd.Process.Pid
}

func (c *Child) signal(s os.Signal) error {
	if !c.running() {
		return nil
	}

	sig, ok := s.(syscall.Signal)
	if !ok {
		return fmt.Errorf("bad signal: %s", s)
	}
	pid := c.cmd.Process.Pid
	if c.setpgid {
		// kill takes negative pid to indicate that you want to use gpid
		pid = -(pid)
	}
	// cross platform way to signal process/process group
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Signal(sig)
}

// kill sends killSignal (if configured) and waits up to killTimeout for the
// process to exit before force-killing it.
func (c *Child) kill() {
	if !c.running() {
		c.logger.Debug("Kill() called but process dead")
		return
	}

	var exited bool
	defer func() {
		if !exited {
			c.logger.Debug("force-killing function process")
			c.cmd.Process.Kill()
		}
		c.cmd = nil
	}()

	if c.killSignal == nil {
		return
	}

	if err := c.signal(c.killSignal); err != nil {
		c.logger.Debug("kill signal failed: %s", err)
		if processNotFoundErr(err) {
			exited = true // checked in defer
		}
		return
	}

	killCh := make(chan struct{}, 1)
	go func() {
		defer close(killCh)
		c.cmd.Process.Wait()
	}()

	select {
	case <-c.stopCh:
	case <-killCh:
		exited = true
	case <-time.After(c.killTimeout):
		c.logger.Debug("timeout waiting for graceful stop")
	}
}

func (c *Child) running() bool {
	select {
	case <-c.exitCh:
		return false
	default:
	}
	return c.cmd != nil && c.cmd.Process != nil
}
