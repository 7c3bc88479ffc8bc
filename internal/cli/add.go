package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ranks/pkg/ranks"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		parent string
		at     int
		name   string
		hidden bool
	)
	cmd := &cobra.Command{
		Use:   "add <table>",
		Short: "Add a record to a list",
		Long:  "Add a record. Without --at it is appended; with --at it is inserted there\nand the records at or after that position move down one.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(args[0], func(_ *ranks.Backend, e *ranks.Engine) error {
				rec, err := e.Create(cmd.Context(), types.Record{
					ParentID: parentArg(parent),
					Position: at,
					Name:     name,
					Visible:  !hidden,
				})
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), a.jsonMode, rec)
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "parent record ID (items only)")
	cmd.Flags().IntVar(&at, "at", 0, "position to insert at (default: append)")
	cmd.Flags().StringVar(&name, "name", "", "record name")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "create the record hidden")
	return cmd
}
