package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ranks/pkg/ranks"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var (
		parent  string
		visible bool
	)
	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List records by scope and position",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.Filter{}
			if cmd.Flags().Changed("parent") {
				if parent == "-" {
					parent = ""
				}
				filter["parent_id"] = parent
			}
			if visible {
				filter["visible"] = true
			}
			return a.withEngine(args[0], func(b *ranks.Backend, _ *ranks.Engine) error {
				tbl, err := b.GetTable(args[0])
				if err != nil {
					return err
				}
				recs, err := tbl.Fetch(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return printRecords(cmd.OutOrStdout(), a.jsonMode, recs)
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "only records of this parent (\"-\" for none)")
	cmd.Flags().BoolVar(&visible, "visible", false, "only visible records")
	return cmd
}

func newSiblingsCmd(a *app) *cobra.Command {
	var (
		lower   bool
		visible bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "siblings <table> <id>",
		Short: "Show the records above (or below) a record, nearest first",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := types.SiblingOptions{VisibleOnly: visible, Limit: limit}
			return a.withEngine(args[0], func(_ *ranks.Backend, e *ranks.Engine) error {
				var (
					recs []types.Record
					err  error
				)
				if lower {
					recs, err = e.LowerItems(cmd.Context(), args[1], opts)
				} else {
					recs, err = e.HigherItems(cmd.Context(), args[1], opts)
				}
				if err != nil {
					return err
				}
				return printRecords(cmd.OutOrStdout(), a.jsonMode, recs)
			})
		},
	}
	cmd.Flags().BoolVar(&lower, "lower", false, "show the records below instead of above")
	cmd.Flags().BoolVar(&visible, "visible", false, "skip hidden records and records of hidden parents")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records (0: all)")
	return cmd
}
