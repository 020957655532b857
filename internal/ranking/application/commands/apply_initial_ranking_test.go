package commands

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/services"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyInitialRankingHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("assigns interpolated ratings below a single anchor", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		uow := new(mockUnitOfWork)
		handler := NewApplyInitialRankingHandler(taskRepo, tuningRepo, uow, nil, testLogger())

		anchor := rehydratedTask(t, userID, value_objects.TierMedium, 1800, 12)
		first := rehydratedTask(t, userID, value_objects.TierMedium, 1500, 0)
		second := rehydratedTask(t, userID, value_objects.TierMedium, 1500, 0)
		third := rehydratedTask(t, userID, value_objects.TierMedium, 1500, 0)

		ctx := context.Background()
		txCtx := testTx(ctx)

		tuningRepo.On("Load", ctx, userID).Return(tuning.Default(), nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		for _, tk := range []*task.Task{first, second, third} {
			taskRepo.On("FindByID", txCtx, tk.ID()).Return(tk, nil)
			taskRepo.On("Save", txCtx, tk).Return(nil)
		}

		result, err := handler.Handle(ctx, ApplyInitialRankingCommand{
			UserID: userID,
			Ordered: []services.RankedCandidate{
				{TaskID: anchor.ID(), Anchor: true, Rating: anchor.Rating()},
				{TaskID: first.ID()},
				{TaskID: second.ID()},
				{TaskID: third.ID()},
			},
		})

		require.NoError(t, err)
		require.Len(t, result.Assigned, 3)

		// Order preserved, all under the anchor, all marked ranked.
		assert.Greater(t, anchor.Rating(), first.Rating())
		assert.Greater(t, first.Rating(), second.Rating())
		assert.Greater(t, second.Rating(), third.Rating())
		for _, tk := range []*task.Task{first, second, third} {
			assert.Equal(t, 1, tk.ComparisonCount())
			assert.False(t, tk.IsNew())
		}
		// The anchor was never loaded or saved.
		taskRepo.AssertNotCalled(t, "FindByID", txCtx, anchor.ID())

		uow.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
	})

	t.Run("already-ranked candidate rolls the whole tier back", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		uow := new(mockUnitOfWork)
		handler := NewApplyInitialRankingHandler(taskRepo, tuningRepo, uow, nil, testLogger())

		fresh := rehydratedTask(t, userID, value_objects.TierLow, 1500, 0)
		stale := rehydratedTask(t, userID, value_objects.TierLow, 1530, 4)

		ctx := context.Background()
		txCtx := testTx(ctx)

		tuningRepo.On("Load", ctx, userID).Return(tuning.Default(), nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, fresh.ID()).Return(fresh, nil)
		taskRepo.On("FindByID", txCtx, stale.ID()).Return(stale, nil)
		taskRepo.On("Save", txCtx, fresh).Return(nil)

		_, err := handler.Handle(ctx, ApplyInitialRankingCommand{
			UserID: userID,
			Ordered: []services.RankedCandidate{
				{TaskID: fresh.ID()},
				{TaskID: stale.ID()},
			},
		})

		assert.ErrorIs(t, err, task.ErrAlreadyRanked)
		uow.AssertExpectations(t)
	})

	t.Run("anchors only is rejected before any transaction", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		uow := new(mockUnitOfWork)
		handler := NewApplyInitialRankingHandler(taskRepo, tuningRepo, uow, nil, testLogger())

		ctx := context.Background()
		tuningRepo.On("Load", ctx, userID).Return(tuning.Default(), nil)

		_, err := handler.Handle(ctx, ApplyInitialRankingCommand{
			UserID: userID,
			Ordered: []services.RankedCandidate{
				{TaskID: uuid.New(), Anchor: true, Rating: 1600},
			},
		})

		assert.ErrorIs(t, err, services.ErrNoCandidates)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("inverted anchor order is rejected before any transaction", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		uow := new(mockUnitOfWork)
		handler := NewApplyInitialRankingHandler(taskRepo, tuningRepo, uow, nil, testLogger())

		ctx := context.Background()
		tuningRepo.On("Load", ctx, userID).Return(tuning.Default(), nil)

		// Placing the 1300 anchor above the 1700 one would give the new
		// task between them a rating above the new task below, inverting
		// the committed order.
		_, err := handler.Handle(ctx, ApplyInitialRankingCommand{
			UserID: userID,
			Ordered: []services.RankedCandidate{
				{TaskID: uuid.New(), Anchor: true, Rating: 1300},
				{TaskID: uuid.New()},
				{TaskID: uuid.New(), Anchor: true, Rating: 1700},
				{TaskID: uuid.New()},
			},
		})

		assert.ErrorIs(t, err, services.ErrAnchorOrder)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("rejects a candidate owned by another user", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		uow := new(mockUnitOfWork)
		handler := NewApplyInitialRankingHandler(taskRepo, tuningRepo, uow, nil, testLogger())

		foreign := rehydratedTask(t, uuid.New(), value_objects.TierMedium, 1500, 0)

		ctx := context.Background()
		txCtx := testTx(ctx)

		tuningRepo.On("Load", ctx, userID).Return(tuning.Default(), nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, foreign.ID()).Return(foreign, nil)

		_, err := handler.Handle(ctx, ApplyInitialRankingCommand{
			UserID:  userID,
			Ordered: []services.RankedCandidate{{TaskID: foreign.ID()}},
		})

		assert.ErrorIs(t, err, ErrNotOwned)
	})
}
