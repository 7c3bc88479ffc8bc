// Package cli implements the ranks command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/ranks/internal/paths"
	"github.com/mesh-intelligence/ranks/pkg/ranks"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks bad arguments or flags.
var errUsage = errors.New("usage")

// userErrors map to exitUserError; everything else is a system error.
var userErrors = []error{
	errUsage,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrInvalidFilter,
	types.ErrInvalidPosition,
	types.ErrScopeMismatch,
	types.ErrNotContiguous,
	types.ErrTableNotFound,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrDriverUnknown,
	types.ErrDSNEmpty,
	types.ErrUniqueIndexUnknown,
	types.ErrUniquenessUnknown,
	types.ErrDeferredIndexSQLite,
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// app holds global flag values and the configuration loaded before each
// command runs.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	v      *viper.Viper
	cfg    types.Config
	logger *slog.Logger
}

// NewRootCmd creates the top-level "ranks" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ranks",
		Short:         "Keep list positions contiguous",
		Long:          "ranks maintains gap-free 1..N positions for sections and the items\nordered within them, on SQLite or PostgreSQL.",
		Version:       ranks.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd.ErrOrStderr())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/ranks)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.ranks)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newAddCmd(a),
		newMoveCmd(a),
		newReparentCmd(a),
		newRemoveCmd(a),
		newListCmd(a),
		newSiblingsCmd(a),
		newCheckCmd(a),
		newRepairCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(context.Background(), NewRootCmd(), os.Args[1:])
}

func run(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// load resolves directories, reads config.yaml and installs the logger.
func (a *app) load(stderr io.Writer) error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}
	a.configDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.v = v

	dataDir, err := paths.ResolveDataDir(a.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolving data dir: %w", err)
	}
	a.cfg = buildConfig(v, dataDir)
	a.logger = newLogger(stderr, a.cfg.LogLevel)
	return nil
}

// withBackend attaches the configured backend for the duration of fn.
func (a *app) withBackend(fn func(b *ranks.Backend) error) (err error) {
	b, err := ranks.Open(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("attaching backend: %w", err)
	}
	defer func() {
		if derr := b.Detach(); derr != nil && err == nil {
			err = derr
		}
	}()
	return fn(b)
}

// withEngine attaches the backend and looks up the engine for table.
func (a *app) withEngine(table string, fn func(b *ranks.Backend, e *ranks.Engine) error) error {
	if _, err := types.LookupList(table); err != nil {
		return fmt.Errorf("%w: %q (valid: %s, %s)", err, table, types.SectionsTable, types.ItemsTable)
	}
	return a.withBackend(func(b *ranks.Backend) error {
		e, err := b.Engine(table)
		if err != nil {
			return err
		}
		return fn(b, e)
	})
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return nil
	}
}
