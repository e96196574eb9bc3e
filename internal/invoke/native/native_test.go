package native

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/zephir-project/zephir/internal/zerrors"
)

func writeScript(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "entry.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestInvokeSucceedsOnZeroExit(t *testing.T) {
	dir := t.TempDir()
	entry := writeScript(t, dir, "echo hello\n")

	err := Invoke(Options{
		Entry:      entry,
		SandboxDir: dir,
		Name:       "myfunc",
		Logger:     hclog.NewNullLogger(),
	})
	require.NoError(t, err)
}

func TestInvokeReturnsInvocationErrorOnNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	entry := writeScript(t, dir, "exit 3\n")

	err := Invoke(Options{
		Entry:      entry,
		SandboxDir: dir,
		Name:       "myfunc",
		Logger:     hclog.NewNullLogger(),
	})
	require.Error(t, err)
	require.True(t, zerrors.IsKind(err, zerrors.KindInvocation))
}
