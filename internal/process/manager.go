package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrClosing is returned when the Manager is shutting down, meaning no
// further function processes can be Exec'd and any still running are being
// stopped with this error.
var ErrClosing = errors.New("process manager is already closing")

// ChildExit is returned when a function process exits with a non-zero exit
// code, so callers can distinguish "ran and failed" from infrastructure
// errors like a missing binary.
type ChildExit struct {
	ExitCode int
	Command  string
}

func (ce *ChildExit) Error() string {
	return fmt.Sprintf("command %s exited (%d)", ce.Command, ce.ExitCode)
}

// gracefulStopTimeout bounds how long Manager waits for a function process
// to exit after being signaled before force-killing it.
const gracefulStopTimeout = 10 * time.Second

// Manager tracks the function process spawned for the lifetime of a single
// native invocation, and makes sure it is signaled and reaped on shutdown
// even if the invocation itself never calls Exec.
type Manager struct {
	done     bool
	children map[*Child]struct{}
	mu       sync.Mutex
	doneCh   chan struct{}
	logger   hclog.Logger
}

// NewManager creates a Manager bound to logger for the life of one
// invocation.
func NewManager(logger hclog.Logger) *Manager {
	return &Manager{
		children: make(map[*Child]struct{}),
		doneCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Exec spawns the function process described by cmd and blocks until it
// completes. Returns a nil error on a zero exit, ErrClosing if the manager
// was closed mid-run, and a ChildExit error on a non-zero exit.
func (m *Manager) Exec(cmd *exec.Cmd) error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return ErrClosing
	}

	child, err := newChild(NewInput{
		Cmd: cmd,
		// Interrupt the function process on shutdown, escalating to a hard
		// kill if it hasn't exited within gracefulStopTimeout.
		KillTimeout: gracefulStopTimeout,
		KillSignal:  os.Interrupt,
		Logger:      m.logger,
	})
	if err != nil {
		return err
	}

	m.children[child] = struct{}{}
	m.mu.Unlock()
	err = child.Start()
	if err != nil {
		m.mu.Lock()
		delete(m.children, child)
		m.mu.Unlock()
		return err
	}
	err = nil
	exitCode, ok := <-child.ExitCh()
	if !ok {
		err = ErrClosing
	} else if exitCode != ExitCodeOK {
		err = &ChildExit{
			ExitCode: exitCode,
			Command:  child.Command(),
		}
	}

	m.mu.Lock()
	delete(m.children, child)
	m.mu.Unlock()
	return err
}

// Close sends SIGINT to all child processes if it hasn't been done yet,
// and in either case blocks until they all exit or timeout
func (m *Manager) Close() {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		<-m.doneCh
		return
	}
	wg := sync.WaitGroup{}
	m.done = true
	for child := range m.children {
		child := child
		wg.Add(1)
		go func() {
			child.Stop()
			wg.Done()
		}()
	}
	m.mu.Unlock()
	wg.Wait()
	close(m.doneCh)
}
