package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ranks/pkg/ranks"
)

const modulePath = "github.com/mesh-intelligence/ranks"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ranks version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ranks v%s\nmodule: %s\n", ranks.Version, modulePath)
			return nil
		},
	}
}
