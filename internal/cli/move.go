package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ranks/pkg/ranks"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

func newMoveCmd(a *app) *cobra.Command {
	var (
		to                    int
		up, down, top, bottom bool
		above, below          string
	)
	cmd := &cobra.Command{
		Use:   "move <table> <id>",
		Short: "Move a record within its list",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneMove(cmd); err != nil {
				return err
			}
			id := args[1]
			return a.withEngine(args[0], func(_ *ranks.Backend, e *ranks.Engine) error {
				var op func(context.Context) (types.Record, error)
				switch {
				case cmd.Flags().Changed("to"):
					op = func(ctx context.Context) (types.Record, error) { return e.MoveTo(ctx, id, to) }
				case up:
					op = func(ctx context.Context) (types.Record, error) { return e.MoveHigher(ctx, id) }
				case down:
					op = func(ctx context.Context) (types.Record, error) { return e.MoveLower(ctx, id) }
				case top:
					op = func(ctx context.Context) (types.Record, error) { return e.MoveToTop(ctx, id) }
				case bottom:
					op = func(ctx context.Context) (types.Record, error) { return e.MoveToBottom(ctx, id) }
				case above != "":
					op = func(ctx context.Context) (types.Record, error) { return e.MoveAbove(ctx, id, above) }
				default:
					op = func(ctx context.Context) (types.Record, error) { return e.MoveBelow(ctx, id, below) }
				}
				rec, err := op(cmd.Context())
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), a.jsonMode, rec)
			})
		},
	}
	cmd.Flags().IntVar(&to, "to", 0, "move to this position")
	cmd.Flags().BoolVar(&up, "up", false, "swap with the record above")
	cmd.Flags().BoolVar(&down, "down", false, "swap with the record below")
	cmd.Flags().BoolVar(&top, "top", false, "move to position 1")
	cmd.Flags().BoolVar(&bottom, "bottom", false, "move to the last position")
	cmd.Flags().StringVar(&above, "above", "", "place directly above this record")
	cmd.Flags().StringVar(&below, "below", "", "place directly below this record")
	return cmd
}

var moveFlags = []string{"to", "up", "down", "top", "bottom", "above", "below"}

// oneMove checks that exactly one move flag was given.
func oneMove(cmd *cobra.Command) error {
	var set []string
	for _, name := range moveFlags {
		if cmd.Flags().Changed(name) {
			set = append(set, name)
		}
	}
	if len(set) != 1 {
		return fmt.Errorf("%w: exactly one of --%s is required, got %d", errUsage, strings.Join(moveFlags, ", --"), len(set))
	}
	return nil
}

func newReparentCmd(a *app) *cobra.Command {
	var at int
	cmd := &cobra.Command{
		Use:   "reparent <id> <parent-id>",
		Short: "Move an item into another section",
		Long:  "Move an item into another section (\"-\" for none). The old section closes\nits gap; without --at the item is appended to the new one.",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(types.ItemsTable, func(_ *ranks.Backend, e *ranks.Engine) error {
				rec, err := e.Reparent(cmd.Context(), args[0], parentArg(args[1]), at)
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), a.jsonMode, rec)
			})
		},
	}
	cmd.Flags().IntVar(&at, "at", 0, "position in the new section (default: append)")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <table> <id>",
		Short: "Remove a record and close the gap",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(args[0], func(_ *ranks.Backend, e *ranks.Engine) error {
				return e.Remove(cmd.Context(), args[1])
			})
		},
	}
}
