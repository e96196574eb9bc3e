// Package runcmd implements the `run` verb: the full UNPACK -> ENFORCE ->
// INVOKE -> CLEANUP pipeline for a single invocation.
package runcmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zephir-project/zephir/internal/cmdutil"
	"github.com/zephir-project/zephir/internal/pipeline"
	"github.com/zephir-project/zephir/internal/signals"
	"github.com/zephir-project/zephir/internal/zephirconfig"
	"github.com/zephir-project/zephir/internal/zlogger"
)

type opts struct {
	configPath string
	noCache    bool
}

func (o *opts) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "zephir.yaml", "Path to the zephir configuration file")
	flags.BoolVar(&o.noCache, "no-cache", false, "Bypass the artifact cache, decompressing straight into the sandbox")
}

// GetCmd returns the `run` cobra command.
func GetCmd(helper *cmdutil.Helper, watcher *signals.Watcher) *cobra.Command {
	o := &opts{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Unpack, enforce, invoke, and clean up in one step",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := zephirconfig.ParseFile(o.configPath)
			if err != nil {
				return err
			}
			logger, err := zlogger.New(cfg.Name, zlogger.Config(cfg.LogConfig))
			if err != nil {
				return err
			}
			helper.GetCmdBase(cmd.Flags(), logger)

			return pipeline.Run(pipeline.Options{
				Config:  cfg,
				NoCache: o.noCache,
				Logger:  logger,
				Watcher: watcher,
			})
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}
