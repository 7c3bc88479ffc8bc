package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ranks/pkg/ranks"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	fixColor  = color.New(color.FgYellow)
)

type scopeReport struct {
	Scope string `json:"scope"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Moved int    `json:"moved,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <table>",
		Short: "Verify every scope holds positions 1..N",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(args[0], func(b *ranks.Backend, e *ranks.Engine) error {
				scopes, err := b.Scopes(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				var reports []scopeReport
				failed := 0
				for _, scope := range scopes {
					r := scopeReport{Scope: scope.String(), OK: true}
					if err := e.Check(cmd.Context(), scope); err != nil {
						if !errors.Is(err, types.ErrNotContiguous) {
							return err
						}
						r.OK, r.Error = false, err.Error()
						failed++
					}
					reports = append(reports, r)
				}

				w := cmd.OutOrStdout()
				if a.jsonMode {
					if err := printJSON(w, reports); err != nil {
						return err
					}
				} else {
					for _, r := range reports {
						if r.OK {
							okColor.Fprint(w, "ok  ")
							fmt.Fprintln(w, r.Scope)
						} else {
							failColor.Fprint(w, "FAIL")
							fmt.Fprintf(w, " %s: %s\n", r.Scope, r.Error)
						}
					}
				}
				if failed > 0 {
					return fmt.Errorf("%w: %d of %d scopes in %s (run `ranks repair %s`)",
						types.ErrNotContiguous, failed, len(scopes), args[0], args[0])
				}
				return nil
			})
		},
	}
}

func newRepairCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repair <table>",
		Short: "Renumber every scope to 1..N keeping the current order",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(args[0], func(b *ranks.Backend, e *ranks.Engine) error {
				scopes, err := b.Scopes(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				var reports []scopeReport
				for _, scope := range scopes {
					moved, err := e.Repair(cmd.Context(), scope)
					if err != nil {
						return fmt.Errorf("repairing scope %s: %w", scope, err)
					}
					reports = append(reports, scopeReport{Scope: scope.String(), OK: true, Moved: moved})
				}

				w := cmd.OutOrStdout()
				if a.jsonMode {
					return printJSON(w, reports)
				}
				for _, r := range reports {
					if r.Moved == 0 {
						okColor.Fprint(w, "ok   ")
					} else {
						fixColor.Fprint(w, "fixed")
					}
					fmt.Fprintf(w, " %s (%d moved)\n", r.Scope, r.Moved)
				}
				return nil
			})
		},
	}
}
