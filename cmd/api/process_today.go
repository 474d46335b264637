package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func processTodayCmd() *cobra.Command {
	var userID string
	var all bool

	cmd := &cobra.Command{
		Use:   "process-today",
		Short: "Queue today's due reminders once and print the result",
		Example: `  remindbridge process-today --user u_123
  remindbridge process-today --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" && !all {
				return fmt.Errorf("specify --user or --all")
			}

			app, err := newApplication()
			if err != nil {
				return err
			}
			defer app.close()

			ctx := cmd.Context()
			if all {
				queued, err := app.schedulerSvc.RunOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "queued %d reminders\n", queued)
				return nil
			}

			result, err := app.reminderSvc.ProcessTodayReminders(ctx, userID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id to process")
	cmd.Flags().BoolVar(&all, "all", false, "process every user with unsent reminders today")
	cmd.MarkFlagsMutuallyExclusive("user", "all")
	cmd.SetErr(os.Stderr)

	return cmd
}
