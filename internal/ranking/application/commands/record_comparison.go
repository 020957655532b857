package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/services"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/domain"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// RecordComparisonCommand records the outcome of one pairwise comparison.
type RecordComparisonCommand struct {
	UserID       uuid.UUID
	WinnerTaskID uuid.UUID
	LoserTaskID  uuid.UUID
}

// RecordComparisonResult reports the applied rating changes.
type RecordComparisonResult struct {
	WinnerRating float64
	LoserRating  float64
	WinnerDelta  float64
	LoserDelta   float64
}

// RecordComparisonHandler handles the RecordComparisonCommand. One
// comparison updates both tasks, propagates shared family ratings, and
// appends to the comparison history in a single transaction.
type RecordComparisonHandler struct {
	taskRepo       task.Repository
	comparisonRepo comparison.Repository
	tuningRepo     tuning.Repository
	uow            sharedApplication.UnitOfWork
	publisher      eventbus.Publisher
	logger         *slog.Logger
}

// NewRecordComparisonHandler creates a new RecordComparisonHandler.
func NewRecordComparisonHandler(taskRepo task.Repository, comparisonRepo comparison.Repository, tuningRepo tuning.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *RecordComparisonHandler {
	return &RecordComparisonHandler{
		taskRepo:       taskRepo,
		comparisonRepo: comparisonRepo,
		tuningRepo:     tuningRepo,
		uow:            uow,
		publisher:      publisher,
		logger:         logger,
	}
}

// Handle executes the RecordComparisonCommand.
func (h *RecordComparisonHandler) Handle(ctx context.Context, cmd RecordComparisonCommand) (*RecordComparisonResult, error) {
	cfg, err := h.tuningRepo.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	calculator := services.NewRatingCalculator(cfg)

	var (
		result  *RecordComparisonResult
		touched []domain.AggregateRoot
	)

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		winner, err := h.taskRepo.FindByID(txCtx, cmd.WinnerTaskID)
		if err != nil {
			return err
		}
		loser, err := h.taskRepo.FindByID(txCtx, cmd.LoserTaskID)
		if err != nil {
			return err
		}
		if winner.UserID() != cmd.UserID || loser.UserID() != cmd.UserID {
			return ErrNotOwned
		}

		outcome, err := calculator.Resolve(winner, loser)
		if err != nil {
			return err
		}

		winner.ApplyComparison(outcome.WinnerRating, loser.ID(), true, outcome.WinnerDelta)
		loser.ApplyComparison(outcome.LoserRating, winner.ID(), false, outcome.LoserDelta)

		if err := h.taskRepo.Save(txCtx, winner); err != nil {
			return err
		}
		if err := h.taskRepo.Save(txCtx, loser); err != nil {
			return err
		}
		touched = append(touched, winner, loser)

		for _, t := range []*task.Task{winner, loser} {
			parent, err := h.propagateSharedRating(txCtx, cmd.UserID, t)
			if err != nil {
				return err
			}
			if parent != nil {
				touched = append(touched, parent)
			}
		}

		record := comparison.NewRecord(cmd.UserID, winner.ID(), loser.ID(), outcome.LoserDelta)
		if err := h.comparisonRepo.Append(txCtx, record); err != nil {
			return err
		}

		result = &RecordComparisonResult{
			WinnerRating: outcome.WinnerRating,
			LoserRating:  outcome.LoserRating,
			WinnerDelta:  outcome.WinnerDelta,
			LoserDelta:   outcome.LoserDelta,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), touched...)

	return result, nil
}

// HandleBatch records a sequence of comparisons, for example the result
// of a tie-resolution round. Each comparison commits on its own so the
// history matches the order the user decided in; the first failure stops
// the batch.
func (h *RecordComparisonHandler) HandleBatch(ctx context.Context, cmds []RecordComparisonCommand) ([]RecordComparisonResult, error) {
	results := make([]RecordComparisonResult, 0, len(cmds))
	for _, cmd := range cmds {
		result, err := h.Handle(ctx, cmd)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// propagateSharedRating mirrors a sharing task's new rating onto its
// family parent. Returns the updated parent, or nil when the task does
// not share.
func (h *RecordComparisonHandler) propagateSharedRating(ctx context.Context, userID uuid.UUID, t *task.Task) (*task.Task, error) {
	if !t.SharesRating() || t.RecurrenceParentID() == nil {
		return nil, nil
	}

	parent, err := h.taskRepo.FindByID(ctx, *t.RecurrenceParentID())
	if err != nil {
		return nil, err
	}
	if parent.UserID() != userID {
		return nil, ErrNotOwned
	}

	parent.SetSharedRating(t.Rating())
	if err := h.taskRepo.Save(ctx, parent); err != nil {
		return nil, err
	}
	return parent, nil
}
