// Package initcmd implements the `init` verb: write a sane-default zephir
// config to an output path, failing if one already exists there.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zephir-project/zephir/internal/cmdutil"
	"github.com/zephir-project/zephir/internal/pathutil"
	"github.com/zephir-project/zephir/internal/zephirconfig"
	"github.com/zephir-project/zephir/internal/zlogger"
)

type opts struct {
	output string
}

func (o *opts) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.output, "output", "zephir.yaml", "Path to write the default configuration to")
}

// GetCmd returns the `init` cobra command.
func GetCmd(helper *cmdutil.Helper) *cobra.Command {
	o := &opts{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default zephir configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := helper.GetCmdBase(cmd.Flags(), mustBootstrapLogger())
			if pathutil.PathExists(o.output) {
				return fmt.Errorf("refusing to overwrite existing config at %s", o.output)
			}
			if err := zephirconfig.WriteFile(o.output, zephirconfig.SaneDefaults()); err != nil {
				return err
			}
			base.UI.Success(fmt.Sprintf("wrote default configuration to %s", o.output))
			return nil
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

// mustBootstrapLogger builds a bare stdout logger for commands, like init,
// that run before any zephir.yaml (and thus any LogConfig) exists.
func mustBootstrapLogger() zlogger.Logger {
	logger, err := zlogger.New("zephir", zlogger.Config{ToStdout: true})
	if err != nil {
		panic(err)
	}
	return logger
}
