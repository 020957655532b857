package cli

import (
	"github.com/felixgeelhaar/nextup/internal/ranking/application/commands"
	"github.com/felixgeelhaar/nextup/internal/ranking/application/queries"
	"github.com/felixgeelhaar/nextup/internal/settings"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	CreateTaskHandler          *commands.CreateTaskHandler
	RecordComparisonHandler    *commands.RecordComparisonHandler
	ApplyInitialRankingHandler *commands.ApplyInitialRankingHandler
	ResetRatingsHandler        *commands.ResetRatingsHandler
	CompleteTaskHandler        *commands.CompleteTaskHandler
	ArchiveTaskHandler         *commands.ArchiveTaskHandler
	UpdateTaskHandler          *commands.UpdateTaskHandler

	// Query Handlers
	ListTasksHandler         *queries.ListTasksHandler
	GetTaskHandler           *queries.GetTaskHandler
	SelectFocusHandler       *queries.SelectFocusHandler
	ComparisonHistoryHandler *queries.ComparisonHistoryHandler

	// Settings
	SettingsService *settings.Service

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createTaskHandler *commands.CreateTaskHandler,
	recordComparisonHandler *commands.RecordComparisonHandler,
	applyInitialRankingHandler *commands.ApplyInitialRankingHandler,
	resetRatingsHandler *commands.ResetRatingsHandler,
	completeTaskHandler *commands.CompleteTaskHandler,
	archiveTaskHandler *commands.ArchiveTaskHandler,
	updateTaskHandler *commands.UpdateTaskHandler,
	listTasksHandler *queries.ListTasksHandler,
	getTaskHandler *queries.GetTaskHandler,
	selectFocusHandler *queries.SelectFocusHandler,
	comparisonHistoryHandler *queries.ComparisonHistoryHandler,
	settingsService *settings.Service,
) *App {
	return &App{
		CreateTaskHandler:          createTaskHandler,
		RecordComparisonHandler:    recordComparisonHandler,
		ApplyInitialRankingHandler: applyInitialRankingHandler,
		ResetRatingsHandler:        resetRatingsHandler,
		CompleteTaskHandler:        completeTaskHandler,
		ArchiveTaskHandler:         archiveTaskHandler,
		UpdateTaskHandler:          updateTaskHandler,
		ListTasksHandler:           listTasksHandler,
		GetTaskHandler:             getTaskHandler,
		SelectFocusHandler:         selectFocusHandler,
		ComparisonHistoryHandler:   comparisonHistoryHandler,
		SettingsService:            settingsService,
		CurrentUserID:              uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
