package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func NewMigrateCommand(rootOpts *RootOptions, open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	up := &cobra.Command{
		Use:           "up",
		Short:         "Apply pending migrations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), rootOpts, open, func(rt *Runtime) error {
				if err := rt.Migrations.Up(); err != nil {
					return WrapExitError(ExitCommandError, "migration failed", err)
				}
				return printVersion(newFormatter(rootOpts, cmd), rt.Migrations)
			})
		},
	}

	version := &cobra.Command{
		Use:           "version",
		Short:         "Print the applied schema version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), rootOpts, open, func(rt *Runtime) error {
				return printVersion(newFormatter(rootOpts, cmd), rt.Migrations)
			})
		},
	}

	cmd.AddCommand(up, version)
	return cmd
}

func printVersion(f *OutputFormatter, m MigrationRunner) error {
	v, dirty, err := m.Version()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read schema version", err)
	}
	status := MigrationStatus{Version: v, Dirty: dirty}
	return f.Success(status, func(w io.Writer) {
		if dirty {
			fmt.Fprintf(w, "Schema version: %d (dirty)\n", v)
			return
		}
		fmt.Fprintf(w, "Schema version: %d\n", v)
	})
}
