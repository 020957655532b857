package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// UpdateTaskCommand contains the data needed to update a task. Nil
// fields are left unchanged; ClearDueDate removes the due date.
type UpdateTaskCommand struct {
	TaskID       uuid.UUID
	UserID       uuid.UUID
	Title        *string
	Tier         *string
	DueDate      *time.Time
	ClearDueDate bool
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the UpdateTaskCommand. A tier change keeps the rating;
// the task simply starts competing in its new tier.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) error {
	var updated *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if t.UserID() != cmd.UserID {
			return ErrNotOwned
		}

		if cmd.Title != nil {
			if err := t.SetTitle(*cmd.Title); err != nil {
				return err
			}
		}

		if cmd.Tier != nil {
			tier, err := value_objects.ParseTier(*cmd.Tier)
			if err != nil {
				return err
			}
			if err := t.SetTier(tier); err != nil {
				return err
			}
		}

		if cmd.ClearDueDate {
			if err := t.SetDueDate(nil); err != nil {
				return err
			}
		} else if cmd.DueDate != nil {
			if err := t.SetDueDate(cmd.DueDate); err != nil {
				return err
			}
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		return err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), updated)

	return nil
}
