package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ranks/pkg/ranks"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create config.yaml and the database",
		Long:  "Write a default config.yaml if none exists, then attach the backend once so\nits tables and unique indexes are created.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(a.configDir, configFileExt)
			written, err := writeConfigIfMissing(path, a.cfg)
			if err != nil {
				return err
			}
			if written {
				a.logger.Info("wrote default config", "path", path)
			}
			if err := a.withBackend(func(*ranks.Backend) error { return nil }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ranks initialized (%s, %s)\n", a.cfg.Backend, a.cfg.DataDir)
			return nil
		},
	}
}
