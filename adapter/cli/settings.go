package cli

import (
	"fmt"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/settings"
	"github.com/spf13/cobra"
)

var (
	setKFactorNew         float64
	setKFactorEstablished float64
	setNewTaskThreshold   int
	setTieEpsilon         float64
	setDefaultRating      float64
	setUrgencyWeight      float64
	setInitialSpread      float64
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and tune the ranking parameters",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current ranking parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SettingsService == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		cfg, err := app.SettingsService.Get(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		printTuning(cfg)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change ranking parameters",
	Long: `Change one or more ranking parameters. Only future comparisons are
affected; existing ratings are never recomputed.

Examples:
  nextup settings set --tie-epsilon 0.02
  nextup settings set --k-new 40 --k-established 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SettingsService == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		var update settings.Update
		flags := cmd.Flags()
		if flags.Changed("k-new") {
			update.KFactorNew = &setKFactorNew
		}
		if flags.Changed("k-established") {
			update.KFactorEstablished = &setKFactorEstablished
		}
		if flags.Changed("new-task-threshold") {
			update.NewTaskThreshold = &setNewTaskThreshold
		}
		if flags.Changed("tie-epsilon") {
			update.TieEpsilon = &setTieEpsilon
		}
		if flags.Changed("default-rating") {
			update.DefaultRating = &setDefaultRating
		}
		if flags.Changed("urgency-weight") {
			update.UrgencyWeight = &setUrgencyWeight
		}
		if flags.Changed("initial-spread") {
			update.InitialSpread = &setInitialSpread
		}

		cfg, err := app.SettingsService.Apply(cmd.Context(), app.CurrentUserID, update)
		if err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}

		fmt.Println("Settings updated.")
		printTuning(cfg)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default ranking parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SettingsService == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		cfg, err := app.SettingsService.Reset(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}

		fmt.Println("Settings restored to defaults.")
		printTuning(cfg)
		return nil
	},
}

func printTuning(cfg tuning.Tuning) {
	fmt.Printf("  k-new:              %.0f\n", cfg.KFactorNew)
	fmt.Printf("  k-established:      %.0f\n", cfg.KFactorEstablished)
	fmt.Printf("  new-task-threshold: %d\n", cfg.NewTaskThreshold)
	fmt.Printf("  tie-epsilon:        %.3f\n", cfg.TieEpsilon)
	fmt.Printf("  default-rating:     %.0f\n", cfg.DefaultRating)
	fmt.Printf("  urgency-weight:     %.2f\n", cfg.UrgencyWeight)
	fmt.Printf("  initial-spread:     %.0f\n", cfg.InitialSpread)
}

func init() {
	settingsSetCmd.Flags().Float64Var(&setKFactorNew, "k-new", 0, "K factor for tasks below the comparison threshold")
	settingsSetCmd.Flags().Float64Var(&setKFactorEstablished, "k-established", 0, "K factor for established tasks")
	settingsSetCmd.Flags().IntVar(&setNewTaskThreshold, "new-task-threshold", 0, "comparisons before a task counts as established")
	settingsSetCmd.Flags().Float64Var(&setTieEpsilon, "tie-epsilon", 0, "importance gap below which tasks are tied")
	settingsSetCmd.Flags().Float64Var(&setDefaultRating, "default-rating", 0, "rating assigned to new tasks")
	settingsSetCmd.Flags().Float64Var(&setUrgencyWeight, "urgency-weight", 0, "due-date weight in the importance score")
	settingsSetCmd.Flags().Float64Var(&setInitialSpread, "initial-spread", 0, "rating band used when interpolating without anchors")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
