package task

import (
	"fmt"

	"github.com/felixgeelhaar/nextup/adapter/cli"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [task-id]",
	Short: "Archive a task",
	Long: `Archive a task, removing it from all future selection without
deleting its comparison history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ArchiveTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}

		if err := app.ArchiveTaskHandler.Handle(cmd.Context(), commands.ArchiveTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to archive task: %w", err)
		}

		fmt.Printf("Task archived: %s\n", taskID)
		return nil
	},
}
