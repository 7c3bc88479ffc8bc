package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ranks/pkg/ranks"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <table> <file>",
		Short: "Write a list to a JSONL file",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(args[0], func(b *ranks.Backend, _ *ranks.Engine) error {
				n, err := b.Export(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d %s to %s\n", n, args[0], args[1])
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <table> <file>",
		Short: "Load a JSONL file into a list",
		Long:  "Load a JSONL file into a list in one transaction. Malformed lines are\nskipped; records are appended to their scope in their stored order.",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(args[0], func(b *ranks.Backend, _ *ranks.Engine) error {
				n, err := b.Import(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s from %s\n", n, args[0], args[1])
				return nil
			})
		},
	}
}
