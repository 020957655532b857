package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID  uuid.UUID
	Title   string
	Tier    string
	DueDate *time.Time

	// Recurring-family linkage. When ShareRating is set the new task
	// mirrors its rating through the parent.
	RecurrenceParentID *uuid.UUID
	ShareRating        bool
	RecurringParent    bool
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
	Rating float64
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	tuningRepo tuning.Repository
	uow        sharedApplication.UnitOfWork
	publisher  eventbus.Publisher
	logger     *slog.Logger
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, tuningRepo tuning.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		tuningRepo: tuningRepo,
		uow:        uow,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	tier, err := value_objects.ParseTier(cmd.Tier)
	if err != nil {
		return nil, err
	}

	cfg, err := h.tuningRepo.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	var created *task.Task

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := task.NewTask(cmd.UserID, cmd.Title, tier, cfg.DefaultRating)
		if err != nil {
			return err
		}

		if cmd.DueDate != nil {
			if err := t.SetDueDate(cmd.DueDate); err != nil {
				return err
			}
		}

		if cmd.RecurrenceParentID != nil {
			parent, err := h.taskRepo.FindByID(txCtx, *cmd.RecurrenceParentID)
			if err != nil {
				return err
			}
			if parent.UserID() != cmd.UserID {
				return ErrNotOwned
			}
			if err := t.LinkRecurrence(parent.ID(), cmd.ShareRating); err != nil {
				return err
			}
			if !parent.IsRecurringParent() {
				parent.MarkRecurringParent()
				if err := h.taskRepo.Save(txCtx, parent); err != nil {
					return err
				}
			}
		}

		if cmd.RecurringParent {
			t.MarkRecurringParent()
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), created)

	return &CreateTaskResult{TaskID: created.ID(), Rating: created.Rating()}, nil
}
