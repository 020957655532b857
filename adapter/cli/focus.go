package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/commands"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/queries"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/services"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/spf13/cobra"
)

var (
	focusTiers          []string
	focusNonInteractive bool
)

// maxFocusRounds bounds the interactive loop; every round either
// resolves a tie or ranks a tier, so selection converges well before
// this.
const maxFocusRounds = 50

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Pick the single task to work on next",
	Long: `Select the most important pending task.

Selection walks tiers from high to low and picks the task with the
highest importance score. When the top tasks are statistically tied you
are asked to compare them head to head; when a tier contains tasks that
were never compared you are asked to order them once.

Examples:
  nextup focus                    # Select across all tiers
  nextup focus --tier high        # Only consider high-tier tasks
  nextup focus --non-interactive  # Report ties instead of resolving them`,
	Aliases: []string{"next"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SelectFocusHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		reader := bufio.NewReader(os.Stdin)

		for round := 0; round < maxFocusRounds; round++ {
			selection, err := app.SelectFocusHandler.Handle(ctx, queries.SelectFocusQuery{
				UserID: app.CurrentUserID,
				Tiers:  focusTiers,
			})
			if err != nil {
				return fmt.Errorf("failed to select focus: %w", err)
			}

			switch selection.Kind {
			case services.SelectionNone:
				fmt.Println("No pending tasks. Enjoy the quiet.")
				return nil

			case services.SelectionFocus:
				printFocus(selection)
				return nil

			case services.SelectionInitialRanking:
				if focusNonInteractive {
					printRankingNeeded(selection.Prompt)
					return nil
				}
				done, err := runInitialRanking(ctx, app, reader, selection.Prompt)
				if err != nil {
					return err
				}
				if !done {
					fmt.Println("Cancelled. Nothing was recorded.")
					return nil
				}

			case services.SelectionTie:
				if focusNonInteractive {
					printTie(selection)
					return nil
				}
				done, err := resolveTie(ctx, app, reader, selection)
				if err != nil {
					return err
				}
				if !done {
					fmt.Println("Cancelled. Nothing was recorded.")
					return nil
				}
			}
		}

		return fmt.Errorf("selection did not converge")
	},
}

func printFocus(selection *services.Selection) {
	t := selection.Focus.Task
	fmt.Println()
	fmt.Printf("Focus on: %s\n", t.Title())
	fmt.Printf("  id:         %s\n", t.ID())
	fmt.Printf("  tier:       %s\n", selection.Tier)
	fmt.Printf("  rating:     %.0f\n", t.Rating())
	fmt.Printf("  importance: %.3f\n", selection.Focus.Importance)
	if due := t.DueDate(); due != nil {
		fmt.Printf("  due:        %s\n", due.Format("2006-01-02"))
	}
}

func printTie(selection *services.Selection) {
	fmt.Printf("Top %s-tier tasks are tied. Run focus interactively to break the tie:\n", selection.Tier)
	for _, st := range selection.Tied {
		fmt.Printf("  %-36s  %s (importance %.3f)\n", st.Task.ID(), st.Task.Title(), st.Importance)
	}
}

func printRankingNeeded(prompt *services.RankingPrompt) {
	fmt.Printf("%d new %s-tier task(s) need an initial ranking. Run focus interactively to rank them:\n",
		len(prompt.NewTasks), prompt.Tier)
	for _, t := range prompt.NewTasks {
		fmt.Printf("  %-36s  %s\n", t.ID(), t.Title())
	}
}

// resolveTie asks the user to pick between the two most important tied
// tasks and records the answer. Returns false when the user backs out.
func resolveTie(ctx context.Context, app *App, reader *bufio.Reader, selection *services.Selection) (bool, error) {
	a, b := selection.Tied[0].Task, selection.Tied[1].Task

	fmt.Println()
	fmt.Printf("These %s-tier tasks are tied. Which would you rather do first?\n", selection.Tier)
	fmt.Printf("  1) %s\n", a.Title())
	fmt.Printf("  2) %s\n", b.Title())

	choice, err := promptLine(reader, "Choose 1 or 2 (q to cancel): ")
	if err != nil {
		return false, err
	}

	var winner, loser *task.Task
	switch choice {
	case "1":
		winner, loser = a, b
	case "2":
		winner, loser = b, a
	default:
		return false, nil
	}

	result, err := app.RecordComparisonHandler.Handle(ctx, commands.RecordComparisonCommand{
		UserID:       app.CurrentUserID,
		WinnerTaskID: winner.ID(),
		LoserTaskID:  loser.ID(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to record comparison: %w", err)
	}

	fmt.Printf("Recorded. %s %.0f (+%.0f), %s %.0f (-%.0f)\n",
		winner.Title(), result.WinnerRating, result.WinnerDelta,
		loser.Title(), result.LoserRating, result.LoserDelta)
	return true, nil
}

// runInitialRanking presents the tier's candidates in random order,
// reads the user's ordering, and applies interpolated ratings. Invalid
// orderings re-prompt. Returns false when the user backs out; no
// ratings are written in that case.
func runInitialRanking(ctx context.Context, app *App, reader *bufio.Reader, prompt *services.RankingPrompt) (bool, error) {
	candidates := prompt.ShuffledCandidates()

	fmt.Println()
	fmt.Printf("The %s tier has tasks that were never compared. Order ALL of the\n", prompt.Tier)
	fmt.Println("following from most to least important. Tasks marked [ranked] keep")
	fmt.Println("their rating and serve as reference points.")
	fmt.Println()
	for i, t := range candidates {
		marker := ""
		if prompt.IsAnchor(t.ID()) {
			marker = " [ranked]"
		}
		fmt.Printf("  %d) %s%s\n", i+1, t.Title(), marker)
	}

	for {
		line, err := promptLine(reader, "Enter the order as numbers, e.g. \"3 1 2\" (q to cancel): ")
		if err != nil {
			return false, err
		}
		if line == "" || line == "q" {
			return false, nil
		}

		order, err := parseOrder(line, len(candidates))
		if err != nil {
			fmt.Println(err)
			continue
		}

		ordered := make([]services.RankedCandidate, 0, len(candidates))
		for _, idx := range order {
			t := candidates[idx]
			ordered = append(ordered, services.RankedCandidate{
				TaskID: t.ID(),
				Anchor: prompt.IsAnchor(t.ID()),
				Rating: t.Rating(),
			})
		}

		result, err := app.ApplyInitialRankingHandler.Handle(ctx, commands.ApplyInitialRankingCommand{
			UserID:  app.CurrentUserID,
			Ordered: ordered,
		})
		if errors.Is(err, services.ErrAnchorOrder) {
			fmt.Println("Tasks marked [ranked] must stay in their current relative order.")
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to apply initial ranking: %w", err)
		}

		fmt.Printf("Ranked %d task(s):\n", len(result.Assigned))
		for _, idx := range order {
			t := candidates[idx]
			if rating, ok := result.Assigned[t.ID()]; ok {
				fmt.Printf("  %-40s %.0f\n", t.Title(), rating)
			}
		}
		return true, nil
	}
}

// parseOrder turns "3 1 2" into zero-based indexes and verifies it is a
// full permutation of 1..n.
func parseOrder(line string, n int) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(fields))
	}

	seen := make(map[int]bool, n)
	order := make([]int, 0, n)
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 1 || v > n {
			return nil, fmt.Errorf("invalid position %q, use numbers 1-%d", f, n)
		}
		if seen[v] {
			return nil, fmt.Errorf("position %d listed twice", v)
		}
		seen[v] = true
		order = append(order, v-1)
	}
	return order, nil
}

func promptLine(reader *bufio.Reader, msg string) (string, error) {
	fmt.Print(msg)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	focusCmd.Flags().StringSliceVar(&focusTiers, "tier", nil, "restrict selection to these tiers (high, medium, low)")
	focusCmd.Flags().BoolVar(&focusNonInteractive, "non-interactive", false, "report ties and pending rankings instead of prompting")
	rootCmd.AddCommand(focusCmd)
}
