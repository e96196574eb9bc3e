// Package packagecmd implements the `package` verb: archive a directory
// into the configured bundle path.
package packagecmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zephir-project/zephir/internal/archive"
	"github.com/zephir-project/zephir/internal/cmdutil"
	"github.com/zephir-project/zephir/internal/zephirconfig"
	"github.com/zephir-project/zephir/internal/zlogger"
)

const defaultCompressionLevel = 3

type opts struct {
	configPath string
	dir        string
}

func (o *opts) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "zephir.yaml", "Path to the zephir configuration file")
	flags.StringVar(&o.dir, "dir", "", "Directory to archive (required)")
}

// GetCmd returns the `package` cobra command.
func GetCmd(helper *cmdutil.Helper) *cobra.Command {
	o := &opts{}
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Archive a directory into the configured bundle path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.dir == "" {
				return fmt.Errorf("--dir is required")
			}
			cfg, err := zephirconfig.ParseFile(o.configPath)
			if err != nil {
				return err
			}
			logger, err := zlogger.New(cfg.Name, zlogger.Config(cfg.LogConfig))
			if err != nil {
				return err
			}
			base := helper.GetCmdBase(cmd.Flags(), logger)

			if err := archive.CompressDir(o.dir, cfg.Function.Bundle.PackagePath, defaultCompressionLevel); err != nil {
				return err
			}
			base.UI.Success(fmt.Sprintf("packaged %s into %s", o.dir, cfg.Function.Bundle.PackagePath))
			return nil
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}
