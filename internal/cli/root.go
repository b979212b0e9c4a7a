package cli

import (
	"context"

	auditusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/audit"
	readinessusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/readiness"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	JSON       bool
	Verbose    bool
}

// MigrationRunner applies the SQL migrations.
type MigrationRunner interface {
	Up() error
	Version() (uint, bool, error)
}

// Runtime is what commands operate on. Close releases the database.
type Runtime struct {
	Audit      auditusecase.AuditUsecase
	Readiness  readinessusecase.ReadinessUsecase
	Migrations MigrationRunner
	Close      func() error
}

// Opener builds a Runtime from the global options.
type Opener func(ctx context.Context, opts *RootOptions) (*Runtime, error)

// NewRootCommand creates the bookingctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bookingctl",
		Short: "Operator tool for the booking service",
		Long:  "Runs order consistency diagnostics and fixes, readiness sweeps and schema migrations against the booking database.",
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config.yaml (default $BOOKING_CONFIG_PATH or config/config.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "print JSON instead of text")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewDiagnoseCommand(opts, open))
	cmd.AddCommand(NewFixCommand(opts, open))
	cmd.AddCommand(NewReadinessCommand(opts, open))
	cmd.AddCommand(NewMigrateCommand(opts, open))

	return cmd
}

// withRuntime opens the runtime, runs fn and always closes it.
func withRuntime(ctx context.Context, opts *RootOptions, open Opener, fn func(rt *Runtime) error) error {
	rt, err := open(ctx, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open booking database", err)
	}
	if rt.Close != nil {
		defer rt.Close()
	}
	return fn(rt)
}
