package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ArchiveTaskCommand contains the data needed to archive a task.
type ArchiveTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// ArchiveTaskHandler handles the ArchiveTaskCommand.
type ArchiveTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewArchiveTaskHandler creates a new ArchiveTaskHandler.
func NewArchiveTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *ArchiveTaskHandler {
	return &ArchiveTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the ArchiveTaskCommand. Archiving is idempotent.
func (h *ArchiveTaskHandler) Handle(ctx context.Context, cmd ArchiveTaskCommand) error {
	var archived *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if t.UserID() != cmd.UserID {
			return ErrNotOwned
		}

		if err := t.Archive(); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		archived = t
		return nil
	})
	if err != nil {
		return err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), archived)

	return nil
}
