package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type SweepResult struct {
	ChecksSent            int `json:"checks_sent"`
	RemindersSent         int `json:"reminders_sent"`
	MovementRemindersSent int `json:"movement_reminders_sent"`
	ExpiredOrdersNotified int `json:"expired_orders_notified"`
}

func NewReadinessCommand(rootOpts *RootOptions, open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Specialist readiness checks",
	}

	sweep := &cobra.Command{
		Use:           "sweep",
		Short:         "Send due readiness checks, reminders and expiry notices once",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			return withRuntime(cmd.Context(), rootOpts, open, func(rt *Runtime) error {
				checks, err := rt.Readiness.DispatchReadinessChecks(cmd.Context())
				if err != nil {
					return WrapExitError(ExitCommandError, "readiness dispatch failed", err)
				}
				reminders, err := rt.Readiness.SendReminders(cmd.Context())
				if err != nil {
					return WrapExitError(ExitCommandError, "readiness reminders failed", err)
				}
				movement, err := rt.Readiness.SendMovementReminders(cmd.Context())
				if err != nil {
					return WrapExitError(ExitCommandError, "movement reminders failed", err)
				}
				expired, err := rt.Readiness.NotifyExpiredOrders(cmd.Context())
				if err != nil {
					return WrapExitError(ExitCommandError, "expired orders notify failed", err)
				}

				result := SweepResult{
					ChecksSent:            checks,
					RemindersSent:         reminders,
					MovementRemindersSent: movement,
					ExpiredOrdersNotified: expired,
				}
				return formatter.Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Readiness checks sent: %d\nReminders sent: %d\n", checks, reminders)
					fmt.Fprintf(w, "Movement reminders sent: %d\nExpired orders notified: %d\n", movement, expired)
				})
			})
		},
	}

	cmd.AddCommand(sweep)
	return cmd
}
