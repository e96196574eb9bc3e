// Package zlogger builds the structured logger Zephir uses for everything
// from pipeline-stage transitions to invoked-function output, driven by the
// logConfig section of a ZephirConfig.
package zlogger

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// Logger is the logging interface used throughout Zephir. It is exactly
// hclog.Logger; the alias exists so callers depend on this package instead
// of reaching for hashicorp/go-hclog directly.
type Logger = hclog.Logger

// Config mirrors the logConfig block of ZephirConfig (spec.md / SPEC_FULL.md
// §6), duplicated here rather than imported from zephirconfig to keep this
// package free of a dependency cycle with config validation.
type Config struct {
	ToFile       bool
	FilePath     string
	ToStdout     bool
	Prefix       string
	DebugEnabled bool
}

// New builds a root logger for the given name (typically ZephirConfig.Name),
// honoring Config's stdout/file/level settings. At least one of ToStdout or
// ToFile must produce output, or the returned logger discards everything,
// matching the original's fern-based logger which is similarly silent when
// neither sink is configured.
func New(name string, cfg Config) (Logger, error) {
	level := hclog.Info
	if cfg.DebugEnabled {
		level = hclog.Debug
	}

	var writers []io.Writer
	if cfg.ToStdout {
		writers = append(writers, os.Stdout)
	}
	if cfg.ToFile {
		if cfg.FilePath == "" {
			return nil, errors.New("logConfig.toFile is set but logConfig.filePath is empty")
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "opening log file %v", cfg.FilePath)
		}
		writers = append(writers, f)
	}

	var output io.Writer = ioutil.Discard
	if len(writers) == 1 {
		output = writers[0]
	} else if len(writers) > 1 {
		output = io.MultiWriter(writers...)
	}

	loggerName := name
	if cfg.Prefix != "" {
		loggerName = cfg.Prefix
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   loggerName,
		Level:  level,
		Output: output,
		Color:  hclog.AutoColor,
	}), nil
}
