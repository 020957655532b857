package cli

import (
	"fmt"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [task-id]",
	Short: "Show a task's comparison history",
	Long: `List the recorded comparisons for a task, newest first.

Opponents that were deleted since the comparison are shown with a
placeholder title; the record itself is kept.

Examples:
  nextup history 4f8d...
  nextup history 4f8d... --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ComparisonHistoryHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}

		entries, err := app.ComparisonHistoryHandler.Handle(cmd.Context(), queries.ComparisonHistoryQuery{
			UserID: app.CurrentUserID,
			TaskID: taskID,
			Limit:  historyLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No comparisons recorded yet.")
			return nil
		}

		for _, e := range entries {
			outcome := "lost to "
			if e.Won {
				outcome = "beat    "
			}
			fmt.Printf("%s  %s %-40s (%.0f pts)\n",
				e.ComparedAt.Local().Format("2006-01-02 15:04"),
				outcome, e.OpponentTitle, e.Adjustment)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum number of entries (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
