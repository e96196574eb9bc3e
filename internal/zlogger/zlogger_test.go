package zlogger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDiscardsOutputWhenNoSinkConfigured(t *testing.T) {
	logger, err := New("myfunc", Config{})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewRequiresFilePathWhenToFileSet(t *testing.T) {
	_, err := New("myfunc", Config{ToFile: true})
	require.Error(t, err)
}

func TestNewWritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zephir.log")
	logger, err := New("myfunc", Config{ToFile: true, FilePath: path})
	require.NoError(t, err)
	logger.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
}

func TestNewUsesPrefixAsLoggerName(t *testing.T) {
	logger, err := New("myfunc", Config{ToStdout: true, Prefix: "[myfunc]"})
	require.NoError(t, err)
	require.Equal(t, "[myfunc]", logger.Name())
}
