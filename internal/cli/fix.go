package cli

import (
	"fmt"
	"io"

	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/response"
	"github.com/spf13/cobra"
)

func NewFixCommand(rootOpts *RootOptions, open Opener) *cobra.Command {
	var rules []string

	cmd := &cobra.Command{
		Use:           "fix",
		Short:         "Apply automatic fixes to inconsistent orders",
		Long:          "Applies the corrective write of every auto-fixable rule. Orders that no longer match at write time are skipped.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			return withRuntime(cmd.Context(), rootOpts, open, func(rt *Runtime) error {
				summary, err := rt.Audit.FixAll(cmd.Context(), rules...)
				if err != nil {
					return WrapExitError(ExitCommandError, "fix failed", err)
				}
				out := response.FromFixSummary(summary)
				if err := formatter.Success(out, func(w io.Writer) {
					fmt.Fprintf(w, "Attempted: %d\nFixed: %d\nSkipped: %d\nFailed: %d\n",
						summary.Attempted, summary.Fixed, summary.Skipped, len(summary.Failures))
					for _, f := range summary.Failures {
						fmt.Fprintf(w, "  %s %s: %s\n", f.Rule, f.OrderID, f.Error)
					}
				}); err != nil {
					return err
				}
				if len(summary.Failures) > 0 {
					return NewExitError(ExitFailure, fmt.Sprintf("%d fix(es) failed", len(summary.Failures)))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&rules, "rule", nil, "limit to these rules (repeatable)")
	return cmd
}
