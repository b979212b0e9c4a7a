package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/spf13/cobra"
)

func NewDiagnoseCommand(rootOpts *RootOptions, open Opener) *cobra.Command {
	var failOnIssues bool

	cmd := &cobra.Command{
		Use:           "diagnose",
		Short:         "Report orders whose status, stage and timestamps disagree",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			return withRuntime(cmd.Context(), rootOpts, open, func(rt *Runtime) error {
				report, err := rt.Audit.RunDiagnostics(cmd.Context())
				if err != nil {
					return WrapExitError(ExitCommandError, "diagnostics failed", err)
				}
				if err := formatter.Success(response.FromDiagnostics(report), func(w io.Writer) {
					printDiagnostics(w, report, rootOpts.Verbose)
				}); err != nil {
					return err
				}
				if failOnIssues && report.Total > 0 {
					return NewExitError(ExitFailure, fmt.Sprintf("%d consistency issue(s) found", report.Total))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&failOnIssues, "fail-on-issues", false, "exit with code 1 when any issue is found")
	return cmd
}

func printDiagnostics(w io.Writer, report *domain.DiagnosticsReport, verbose bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tAUTO-FIX\tORDERS")
	for _, rr := range report.Rules {
		fix := "no"
		if rr.AutoFix {
			fix = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", rr.Title, rr.Severity, fix, len(rr.Orders))
	}
	tw.Flush()

	if verbose {
		for _, rr := range report.Rules {
			if len(rr.Orders) == 0 {
				continue
			}
			ids := make([]string, 0, len(rr.Orders))
			for _, o := range rr.Orders {
				ids = append(ids, o.ID)
			}
			fmt.Fprintf(w, "\n%s:\n  %s\n", rr.Rule, strings.Join(ids, "\n  "))
		}
	}
	fmt.Fprintf(w, "\nTotal issues: %d\n", report.Total)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		JSON:      opts.JSON,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
