package cli

import (
	"fmt"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [winner-id] [loser-id]",
	Short: "Record the outcome of a pairwise comparison",
	Long: `Record that one task beat another in a head-to-head comparison.

Both tasks must belong to the same tier. The winner's rating goes up,
the loser's goes down; how far depends on how surprising the outcome
was and on how established each task's rating is.

Examples:
  nextup compare 4f8d... 9a1c...   # The first task wins`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.RecordComparisonHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		winnerID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid winner id: %w", err)
		}
		loserID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid loser id: %w", err)
		}

		result, err := app.RecordComparisonHandler.Handle(cmd.Context(), commands.RecordComparisonCommand{
			UserID:       app.CurrentUserID,
			WinnerTaskID: winnerID,
			LoserTaskID:  loserID,
		})
		if err != nil {
			return fmt.Errorf("failed to record comparison: %w", err)
		}

		fmt.Println("Comparison recorded.")
		fmt.Printf("  winner: %.0f (+%.0f)\n", result.WinnerRating, result.WinnerDelta)
		fmt.Printf("  loser:  %.0f (-%.0f)\n", result.LoserRating, result.LoserDelta)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
