package cli

import (
	"fmt"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var resetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset [task-id]",
	Short: "Reset task ratings to the default",
	Long: `Reset a task's rating to the default and delete its comparison
history, or reset every task at once with --all.

Examples:
  nextup reset 4f8d...   # Reset one task
  nextup reset --all     # Reset everything`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ResetRatingsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()

		if resetAll {
			if len(args) > 0 {
				return fmt.Errorf("cannot combine a task id with --all")
			}
			count, err := app.ResetRatingsHandler.HandleAll(ctx, commands.ResetAllRatingsCommand{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return fmt.Errorf("failed to reset ratings: %w", err)
			}
			fmt.Printf("Reset %d task(s) and cleared the comparison history.\n", count)
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("provide a task id or use --all")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}

		changed, err := app.ResetRatingsHandler.HandleTask(ctx, commands.ResetTaskRatingCommand{
			UserID: app.CurrentUserID,
			TaskID: taskID,
		})
		if err != nil {
			return fmt.Errorf("failed to reset rating: %w", err)
		}

		if changed {
			fmt.Println("Rating reset and comparison history cleared.")
		} else {
			fmt.Println("Task was already at the default rating.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "reset every task")
	rootCmd.AddCommand(resetCmd)
}
