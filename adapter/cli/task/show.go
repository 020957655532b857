package task

import (
	"fmt"

	"github.com/felixgeelhaar/nextup/adapter/cli"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{
			UserID: app.CurrentUserID,
			TaskID: taskID,
		})
		if err != nil {
			return fmt.Errorf("failed to load task: %w", err)
		}

		fmt.Printf("%s\n", t.Title)
		fmt.Printf("  id:          %s\n", t.ID)
		fmt.Printf("  status:      %s\n", t.Status)
		fmt.Printf("  tier:        %s\n", t.Tier)
		fmt.Printf("  rating:      %.0f\n", t.Rating)
		fmt.Printf("  comparisons: %d\n", t.ComparisonCount)
		fmt.Printf("  importance:  %.3f\n", t.Importance)
		if t.New {
			fmt.Println("  never compared, needs an initial ranking")
		}
		if t.DueDate != nil {
			fmt.Printf("  due:         %s\n", t.DueDate.Format("2006-01-02"))
		}
		if t.CompletedAt != nil {
			fmt.Printf("  completed:   %s\n", t.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		if t.RecurringParent {
			fmt.Println("  recurring parent")
		}
		if t.SharedRating != nil {
			fmt.Printf("  shared rating: %.0f\n", *t.SharedRating)
		}
		fmt.Printf("  created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}
