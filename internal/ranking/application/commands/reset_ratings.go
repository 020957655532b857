package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/domain"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ResetTaskRatingCommand restores one task to the default rating state.
type ResetTaskRatingCommand struct {
	UserID uuid.UUID
	TaskID uuid.UUID
}

// ResetAllRatingsCommand restores every task of a user to the default
// rating state.
type ResetAllRatingsCommand struct {
	UserID uuid.UUID
}

// ResetRatingsHandler handles rating resets. A reset also deletes the
// affected comparison history; ratings and history stay consistent.
type ResetRatingsHandler struct {
	taskRepo       task.Repository
	comparisonRepo comparison.Repository
	tuningRepo     tuning.Repository
	uow            sharedApplication.UnitOfWork
	publisher      eventbus.Publisher
	logger         *slog.Logger
}

// NewResetRatingsHandler creates a new ResetRatingsHandler.
func NewResetRatingsHandler(taskRepo task.Repository, comparisonRepo comparison.Repository, tuningRepo tuning.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *ResetRatingsHandler {
	return &ResetRatingsHandler{
		taskRepo:       taskRepo,
		comparisonRepo: comparisonRepo,
		tuningRepo:     tuningRepo,
		uow:            uow,
		publisher:      publisher,
		logger:         logger,
	}
}

// HandleTask executes the ResetTaskRatingCommand. Returns true when the
// task state actually changed; resetting an already-default task is a
// no-op, not an error.
func (h *ResetRatingsHandler) HandleTask(ctx context.Context, cmd ResetTaskRatingCommand) (bool, error) {
	cfg, err := h.tuningRepo.Load(ctx, cmd.UserID)
	if err != nil {
		return false, err
	}

	var (
		changed bool
		touched []domain.AggregateRoot
	)

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if t.UserID() != cmd.UserID {
			return ErrNotOwned
		}

		changed = t.ResetRating(cfg.DefaultRating)
		if !changed {
			return nil
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		touched = append(touched, t)

		return h.comparisonRepo.DeleteByTask(txCtx, t.ID())
	})
	if err != nil {
		return false, err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), touched...)

	return changed, nil
}

// HandleAll executes the ResetAllRatingsCommand and returns the number
// of tasks whose state changed.
func (h *ResetRatingsHandler) HandleAll(ctx context.Context, cmd ResetAllRatingsCommand) (int, error) {
	cfg, err := h.tuningRepo.Load(ctx, cmd.UserID)
	if err != nil {
		return 0, err
	}

	var touched []domain.AggregateRoot

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		tasks, err := h.taskRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}

		for _, t := range tasks {
			if !t.ResetRating(cfg.DefaultRating) {
				continue
			}
			if err := h.taskRepo.Save(txCtx, t); err != nil {
				return err
			}
			touched = append(touched, t)
		}

		return h.comparisonRepo.DeleteAll(txCtx, cmd.UserID)
	})
	if err != nil {
		return 0, err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), touched...)

	return len(touched), nil
}
