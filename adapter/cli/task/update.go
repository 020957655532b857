package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/nextup/adapter/cli"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	updateTitle string
	updateTier  string
	updateDue   string
	clearDue    bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update a task's title, tier, or due date.

Moving a task to another tier keeps its rating; it will simply compete
against its new tier mates from now on.

Examples:
  nextup task update 4f8d... --title "New title"
  nextup task update 4f8d... --tier high
  nextup task update 4f8d... --due 2026-09-30
  nextup task update 4f8d... --clear-due`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}

		updateCmd := commands.UpdateTaskCommand{
			TaskID:       taskID,
			UserID:       app.CurrentUserID,
			ClearDueDate: clearDue,
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			updateCmd.Title = &updateTitle
		}
		if flags.Changed("tier") {
			updateCmd.Tier = &updateTier
		}
		if flags.Changed("due") {
			if clearDue {
				return fmt.Errorf("cannot combine --due with --clear-due")
			}
			parsed, err := time.Parse("2006-01-02", updateDue)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			updateCmd.DueDate = &parsed
		}

		if err := app.UpdateTaskHandler.Handle(cmd.Context(), updateCmd); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Printf("Task updated: %s\n", taskID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateTier, "tier", "", "new tier (high, medium, low)")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().BoolVar(&clearDue, "clear-due", false, "remove the due date")
}
