// Package unpackcmd implements the `unpack` verb: perform UNPACK only and
// log the resulting sandbox path.
package unpackcmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zephir-project/zephir/internal/cmdutil"
	"github.com/zephir-project/zephir/internal/unpack"
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

// GetCmd returns the `unpack` cobra command.
func GetCmd(helper *cmdutil.Helper) *cobra.Command {
	o := &opts{}
	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Unpack a bundle into a fresh sandbox directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := zephirconfig.ParseFile(o.configPath)
			if err != nil {
				return err
			}
			logger, err := zlogger.New(cfg.Name, zlogger.Config(cfg.LogConfig))
			if err != nil {
				return err
			}
			base := helper.GetCmdBase(cmd.Flags(), logger)

			sandboxPath, err := unpack.Run(unpack.Options{
				BundlePath:  cfg.Function.Bundle.PackagePath,
				CacheRoot:   cfg.Storage.Cache,
				SandboxRoot: cfg.Storage.Sandbox,
				NoCache:     o.noCache,
			})
			if err != nil {
				return err
			}
			base.Logger.Info("unpacked bundle", "sandboxPath", sandboxPath)
			base.UI.Success(sandboxPath)
			return nil
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}
