package cmdutil

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestCwdDefaultsToDot(t *testing.T) {
	h := NewHelper("test-version")
	require.Equal(t, ".", h.Cwd())
}

func TestCwdReflectsFlag(t *testing.T) {
	h := NewHelper("test-version")
	flags := pflag.NewFlagSet("test-flags", pflag.ContinueOnError)
	h.AddFlags(flags)
	require.NoError(t, flags.Set("cwd", "/tmp/somewhere"))
	require.Equal(t, "/tmp/somewhere", h.Cwd())
}

func TestGetCmdBaseCarriesVersionAndLogger(t *testing.T) {
	h := NewHelper("test-version")
	flags := pflag.NewFlagSet("test-flags", pflag.ContinueOnError)
	h.AddFlags(flags)

	logger := hclog.NewNullLogger()
	base := h.GetCmdBase(flags, logger)
	require.Equal(t, "test-version", base.ZephirVersion)
	require.Equal(t, logger, base.Logger)
	require.NotNil(t, base.UI)
}

func TestRegisterCleanupRunsOnCleanup(t *testing.T) {
	h := NewHelper("test-version")
	flags := pflag.NewFlagSet("test-flags", pflag.ContinueOnError)
	h.AddFlags(flags)

	ran := false
	h.RegisterCleanup(closerFunc(func() error {
		ran = true
		return nil
	}))
	h.Cleanup(flags)
	require.True(t, ran)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
