// Package cmdutil holds functionality shared by every zephir subcommand:
// flag parsing and configuration of components common to all of them.
package cmdutil

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/pflag"

	"github.com/zephir-project/zephir/internal/cliui"
	"github.com/zephir-project/zephir/internal/zlogger"
)

// Helper is a struct used to hold configuration values passed via flag, env
// vars, etc. It is not intended for direct use by zephir commands, it drives
// the creation of CmdBase, which is then used by the commands themselves.
type Helper struct {
	// ZephirVersion is the version of zephir that is currently executing.
	ZephirVersion string

	// for UI
	forceColor bool
	noColor    bool

	rawCwd string

	cleanupsMu sync.Mutex
	cleanups   []io.Closer
}

// RegisterCleanup saves a function to be run after zephir execution,
// even if the command that runs returns an error.
func (h *Helper) RegisterCleanup(cleanup io.Closer) {
	h.cleanupsMu.Lock()
	defer h.cleanupsMu.Unlock()
	h.cleanups = append(h.cleanups, cleanup)
}

// Cleanup runs the registered cleanup handlers. It requires the flags of
// the root command so that it can construct a UI if necessary.
func (h *Helper) Cleanup(flags *pflag.FlagSet) {
	h.cleanupsMu.Lock()
	defer h.cleanupsMu.Unlock()
	ui := h.getUI(flags)
	for _, cleanup := range h.cleanups {
		if err := cleanup.Close(); err != nil {
			ui.Warn(fmt.Sprintf("failed cleanup: %v", err))
		}
	}
}

func (h *Helper) getUI(flags *pflag.FlagSet) *cliui.UI {
	colorMode := cliui.GetColorModeFromEnv()
	if flags.Changed("no-color") && h.noColor {
		colorMode = cliui.ColorModeSuppressed
	}
	if flags.Changed("color") && h.forceColor {
		colorMode = cliui.ColorModeForced
	}
	return cliui.Build(colorMode)
}

// AddFlags adds common flags for all zephir commands to the given flagset
// and binds them to this instance of Helper.
func (h *Helper) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&h.forceColor, "color", false, "Force color usage in the terminal")
	flags.BoolVar(&h.noColor, "no-color", false, "Suppress color usage in the terminal")
	flags.StringVar(&h.rawCwd, "cwd", "", "The directory in which to run zephir")
}

// NewHelper returns a new helper instance to hold configuration values for
// the root zephir command.
func NewHelper(zephirVersion string) *Helper {
	return &Helper{ZephirVersion: zephirVersion}
}

// Cwd returns the raw --cwd flag value, or "." when unset.
func (h *Helper) Cwd() string {
	if h.rawCwd == "" {
		return "."
	}
	return h.rawCwd
}

// CmdBase encompasses configured components common to all zephir commands.
type CmdBase struct {
	UI            *cliui.UI
	Logger        zlogger.Logger
	ZephirVersion string
}

// GetCmdBase returns a CmdBase instance configured with values from this
// helper. The logger is built by the caller from a parsed ZephirConfig
// (or a bare fallback for commands, like init, that run before any config
// exists) and simply threaded through here.
func (h *Helper) GetCmdBase(flags *pflag.FlagSet, logger zlogger.Logger) *CmdBase {
	return &CmdBase{
		UI:            h.getUI(flags),
		Logger:        logger,
		ZephirVersion: h.ZephirVersion,
	}
}
