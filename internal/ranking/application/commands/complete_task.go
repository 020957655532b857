package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the CompleteTaskCommand. Completed tasks keep their
// rating; a recurring family's next occurrence starts from it.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
	var completed *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if t.UserID() != cmd.UserID {
			return ErrNotOwned
		}

		if err := t.Complete(); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		completed = t
		return nil
	})
	if err != nil {
		return err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), completed)

	return nil
}
