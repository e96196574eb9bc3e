// Package cliui renders terminal-aware, colored status output for zephir
// subcommands. It is kept deliberately separate from zlogger: the logger
// carries structured execution logs (including per-invocation output from
// invoked functions), while cliui carries the handful of human-facing
// messages a command prints about itself (e.g. "wrote zephir.yaml").
package cliui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// IsTTY is true when stdout appears to be a tty.
var IsTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// ColorMode controls whether ANSI color codes are emitted.
type ColorMode int

const (
	ColorModeUndefined ColorMode = iota + 1
	ColorModeSuppressed
	ColorModeForced
)

// GetColorModeFromEnv mirrors the supports-color convention: FORCE_COLOR=0
// suppresses color, FORCE_COLOR=1/2/3 forces it on.
func GetColorModeFromEnv() ColorMode {
	switch v := os.Getenv("FORCE_COLOR"); {
	case v == "false" || v == "0":
		return ColorModeSuppressed
	case v == "true" || v == "1" || v == "2" || v == "3":
		return ColorModeForced
	default:
		return ColorModeUndefined
	}
}

var (
	successPrefix = color.New(color.Bold, color.FgGreen, color.ReverseVideo).Sprint(" OK ")
	warnPrefix    = color.New(color.Bold, color.FgYellow, color.ReverseVideo).Sprint(" WARN ")
	errorPrefix   = color.New(color.Bold, color.FgRed, color.ReverseVideo).Sprint(" ERROR ")
)

// UI prints colored, leveled status messages to stdout/stderr.
type UI struct {
	noColor bool
}

// Build constructs a UI honoring the given color mode.
func Build(mode ColorMode) *UI {
	switch mode {
	case ColorModeForced:
		color.NoColor = false
	case ColorModeSuppressed:
		color.NoColor = true
	case ColorModeUndefined:
		// leave color.NoColor at its isatty/NO_COLOR-derived default
	}
	return &UI{noColor: color.NoColor}
}

// Info prints an informational message.
func (u *UI) Info(msg string) {
	fmt.Fprintln(os.Stdout, msg)
}

// Success prints a success message.
func (u *UI) Success(msg string) {
	fmt.Fprintln(os.Stdout, successPrefix+" "+color.GreenString(msg))
}

// Warn prints a warning message to stderr.
func (u *UI) Warn(msg string) {
	fmt.Fprintln(os.Stderr, warnPrefix+" "+color.YellowString(msg))
}

// Error prints an error message to stderr.
func (u *UI) Error(msg string) {
	fmt.Fprintln(os.Stderr, errorPrefix+" "+color.RedString(msg))
}
