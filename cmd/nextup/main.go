package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/nextup/adapter/cli"
	"github.com/felixgeelhaar/nextup/adapter/cli/task"
	"github.com/felixgeelhaar/nextup/internal/app"
	"github.com/felixgeelhaar/nextup/pkg/config"
	"github.com/felixgeelhaar/nextup/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cliApp := cli.NewApp(
		container.CreateTaskHandler,
		container.RecordComparisonHandler,
		container.ApplyInitialRankingHandler,
		container.ResetRatingsHandler,
		container.CompleteTaskHandler,
		container.ArchiveTaskHandler,
		container.UpdateTaskHandler,
		container.ListTasksHandler,
		container.GetTaskHandler,
		container.SelectFocusHandler,
		container.ComparisonHistoryHandler,
		container.SettingsService,
	)
	cliApp.SetCurrentUserID(container.UserID)
	cli.SetApp(cliApp)

	// Register command groups
	cli.AddCommand(task.Cmd)

	cli.ExecuteContext(ctx)
}
