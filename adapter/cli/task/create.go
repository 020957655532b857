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
	tier            string
	dueDate         string
	recurringParent bool
	recurrenceOf    string
	shareRating     bool
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new task in a priority tier.

New tasks start at the default rating and are only compared against
tasks in the same tier. Recurring work can share one rating across all
its instances by linking them to a parent task.

Examples:
  nextup task create "Write quarterly report"
  nextup task create "Review PR" --tier high
  nextup task create "File taxes" --tier high --due 2026-04-15
  nextup task create "Weekly review" --recurring-parent
  nextup task create "Weekly review 2026-09-01" --recurrence-of 4f8d... --share-rating`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		createCmd := commands.CreateTaskCommand{
			UserID:          app.CurrentUserID,
			Title:           args[0],
			Tier:            tier,
			RecurringParent: recurringParent,
			ShareRating:     shareRating,
		}

		if dueDate != "" {
			parsed, err := time.Parse("2006-01-02", dueDate)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			createCmd.DueDate = &parsed
		}

		if recurrenceOf != "" {
			parentID, err := uuid.Parse(recurrenceOf)
			if err != nil {
				return fmt.Errorf("invalid parent task id: %w", err)
			}
			createCmd.RecurrenceParentID = &parentID
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Printf("Task created: %s\n", result.TaskID)
		fmt.Printf("  title:  %s\n", args[0])
		fmt.Printf("  tier:   %s\n", tier)
		fmt.Printf("  rating: %.0f\n", result.Rating)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&tier, "tier", "t", "medium", "priority tier (high, medium, low)")
	createCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().BoolVar(&recurringParent, "recurring-parent", false, "mark this task as the parent of a recurring family")
	createCmd.Flags().StringVar(&recurrenceOf, "recurrence-of", "", "link this task to a recurring parent by id")
	createCmd.Flags().BoolVar(&shareRating, "share-rating", false, "share the rating with the recurring parent")
}
