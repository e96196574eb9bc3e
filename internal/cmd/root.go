// Package cmd holds the root cobra command for zephir.
package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zephir-project/zephir/internal/cmd/initcmd"
	"github.com/zephir-project/zephir/internal/cmd/invokecmd"
	"github.com/zephir-project/zephir/internal/cmd/packagecmd"
	"github.com/zephir-project/zephir/internal/cmd/runcmd"
	"github.com/zephir-project/zephir/internal/cmd/unpackcmd"
	"github.com/zephir-project/zephir/internal/cmdutil"
	"github.com/zephir-project/zephir/internal/process"
	"github.com/zephir-project/zephir/internal/signals"
)

// RunWithArgs runs zephir with the specified arguments. The arguments should
// not include the binary being invoked (e.g. "zephir").
func RunWithArgs(args []string, zephirVersion string) int {
	signalWatcher := signals.NewWatcher()
	helper := cmdutil.NewHelper(zephirVersion)
	root := getCmd(helper, signalWatcher)
	root.SetArgs(args)

	defer helper.Cleanup(root.Flags())

	doneCh := make(chan struct{})
	var execErr error
	go func() {
		execErr = root.Execute()
		close(doneCh)
	}()

	// Wait for either our command to finish, in which case we need to clean
	// up, or to receive a signal, in which case the signal handler already
	// ran the registered close handlers (including sandbox cleanup).
	select {
	case <-doneCh:
		signalWatcher.Close()
		exitErr := &process.ChildExit{}
		if errors.As(execErr, &exitErr) {
			return exitErr.ExitCode
		} else if execErr != nil {
			return 1
		}
		return 0
	case <-signalWatcher.Done():
		return 1
	}
}

// getCmd returns the root cobra command.
func getCmd(helper *cmdutil.Helper, signalWatcher *signals.Watcher) *cobra.Command {
	cmd := &cobra.Command{
		Use:              "zephir",
		Short:            "Sandboxed function packaging and invocation",
		TraverseChildren: true,
		Version:          helper.ZephirVersion,
		// Apply --cwd before any subcommand resolves its relative paths.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return os.Chdir(helper.Cwd())
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	flags := cmd.PersistentFlags()
	helper.AddFlags(flags)

	cmd.AddCommand(initcmd.GetCmd(helper))
	cmd.AddCommand(packagecmd.GetCmd(helper))
	cmd.AddCommand(unpackcmd.GetCmd(helper))
	cmd.AddCommand(invokecmd.GetCmd(helper, signalWatcher))
	cmd.AddCommand(runcmd.GetCmd(helper, signalWatcher))
	return cmd
}
