package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/services"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/domain"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ApplyInitialRankingCommand commits a user-ordered candidate list from
// an initial-ranking prompt. Ordered runs highest priority first and
// includes the anchors at the positions the user placed them.
type ApplyInitialRankingCommand struct {
	UserID  uuid.UUID
	Ordered []services.RankedCandidate
}

// ApplyInitialRankingResult maps each newly ranked task to its
// interpolated rating.
type ApplyInitialRankingResult struct {
	Assigned map[uuid.UUID]float64
}

// ApplyInitialRankingHandler handles the ApplyInitialRankingCommand.
// Anchors keep their ratings; every other candidate receives an
// interpolated one, all within a single transaction so a failure leaves
// no partially ranked tier.
type ApplyInitialRankingHandler struct {
	taskRepo   task.Repository
	tuningRepo tuning.Repository
	uow        sharedApplication.UnitOfWork
	publisher  eventbus.Publisher
	logger     *slog.Logger
}

// NewApplyInitialRankingHandler creates a new ApplyInitialRankingHandler.
func NewApplyInitialRankingHandler(taskRepo task.Repository, tuningRepo tuning.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *ApplyInitialRankingHandler {
	return &ApplyInitialRankingHandler{
		taskRepo:   taskRepo,
		tuningRepo: tuningRepo,
		uow:        uow,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle executes the ApplyInitialRankingCommand.
func (h *ApplyInitialRankingHandler) Handle(ctx context.Context, cmd ApplyInitialRankingCommand) (*ApplyInitialRankingResult, error) {
	cfg, err := h.tuningRepo.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	ratings, err := services.InterpolateRatings(cmd.Ordered, cfg)
	if err != nil {
		return nil, err
	}

	var touched []domain.AggregateRoot

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		for _, candidate := range cmd.Ordered {
			rating, ok := ratings[candidate.TaskID]
			if !ok {
				continue // Anchor, keeps its rating
			}

			t, err := h.taskRepo.FindByID(txCtx, candidate.TaskID)
			if err != nil {
				return err
			}
			if t.UserID() != cmd.UserID {
				return ErrNotOwned
			}

			if err := t.ApplyInitialRank(rating); err != nil {
				return err
			}
			if err := h.taskRepo.Save(txCtx, t); err != nil {
				return err
			}
			touched = append(touched, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	flushEvents(ctx, h.logger, h.publisher, sharedApplication.NewEventMetadata(cmd.UserID), touched...)

	return &ApplyInitialRankingResult{Assigned: ratings}, nil
}
