package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/nextup/adapter/cli"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/queries"
	"github.com/spf13/cobra"
)

var (
	status     string
	filterTier string
	sortBy     string
	limit      int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering and sorting.

By default pending tasks are shown, tier by tier, rating-descending.

Examples:
  nextup task list                      # Pending tasks by rank
  nextup task list --tier high          # Only the high tier
  nextup task list --status completed   # Completed tasks
  nextup task list --sort due_date      # By due date
  nextup task list --limit 5            # Top 5`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			UserID: app.CurrentUserID,
			Status: status,
			Tier:   filterTier,
			SortBy: sortBy,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		currentTier := ""
		for _, t := range tasks {
			if sortBy == "" && t.Tier != currentTier {
				currentTier = t.Tier
				fmt.Printf("\n%s\n%s\n", strings.ToUpper(currentTier), strings.Repeat("-", 60))
			}
			fmt.Println(formatTaskLine(t))
		}
		fmt.Println()
		return nil
	},
}

func formatTaskLine(t queries.TaskDTO) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %-36s  %-32s %4.0f", t.ID, truncate(t.Title, 32), t.Rating)

	if t.New {
		sb.WriteString("  [new]")
	}
	if t.RecurringParent {
		sb.WriteString("  [recurring]")
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		if t.DueDate.Before(time.Now()) && t.Status == "pending" {
			fmt.Fprintf(&sb, "  OVERDUE %s", due)
		} else {
			fmt.Fprintf(&sb, "  due %s", due)
		}
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	listCmd.Flags().StringVar(&status, "status", "pending", "filter by status (pending, completed, archived, all)")
	listCmd.Flags().StringVar(&filterTier, "tier", "", "filter by tier (high, medium, low)")
	listCmd.Flags().StringVar(&sortBy, "sort", "", "sort by field (rating, due_date, created_at)")
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of tasks (0 = all)")
}
