// Package invokecmd implements the `invoke` verb: ENFORCE + INVOKE + CLEANUP
// against a sandbox directory materialized by a prior `unpack`.
package invokecmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zephir-project/zephir/internal/cmdutil"
	"github.com/zephir-project/zephir/internal/pipeline"
	"github.com/zephir-project/zephir/internal/signals"
	"github.com/zephir-project/zephir/internal/zephirconfig"
	"github.com/zephir-project/zephir/internal/zlogger"
)

type opts struct {
	configPath  string
	sandboxPath string
}

func (o *opts) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "zephir.yaml", "Path to the zephir configuration file")
	flags.StringVar(&o.sandboxPath, "sandbox-path", "", "Pre-existing sandbox directory to enforce and invoke against (required)")
}

// GetCmd returns the `invoke` cobra command.
func GetCmd(helper *cmdutil.Helper, watcher *signals.Watcher) *cobra.Command {
	o := &opts{}
	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Enforce sandbox limits and invoke the function against an existing sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.sandboxPath == "" {
				return fmt.Errorf("--sandbox-path is required")
			}
			cfg, err := zephirconfig.ParseFile(o.configPath)
			if err != nil {
				return err
			}
			logger, err := zlogger.New(cfg.Name, zlogger.Config(cfg.LogConfig))
			if err != nil {
				return err
			}
			helper.GetCmdBase(cmd.Flags(), logger)

			return pipeline.RunOnSandbox(pipeline.Options{
				Config:  cfg,
				Logger:  logger,
				Watcher: watcher,
			}, o.sandboxPath)
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}
