package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("returns the task with its importance score", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		handler := NewGetTaskHandler(taskRepo, tuningRepo)

		subject := rehydratedTask(t, userID, "write report", value_objects.TierHigh, 1500, 4)

		taskRepo.On("FindByID", ctx, subject.ID()).Return(subject, nil)
		tuningRepo.On("Load", ctx, userID).Return(tuning.Default(), nil)

		dto, err := handler.Handle(ctx, GetTaskQuery{UserID: userID, TaskID: subject.ID()})

		require.NoError(t, err)
		assert.Equal(t, subject.ID(), dto.ID)
		assert.Equal(t, "write report", dto.Title)
		assert.Equal(t, "high", dto.Tier)
		assert.Equal(t, 4, dto.ComparisonCount)
		// Default rating, no due date: importance is exactly 1.0.
		assert.InDelta(t, 1.0, dto.Importance, 1e-9)
	})

	t.Run("another user's task reads as not found", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		handler := NewGetTaskHandler(taskRepo, tuningRepo)

		subject := rehydratedTask(t, uuid.New(), "private", value_objects.TierLow, 1500, 0)

		taskRepo.On("FindByID", ctx, subject.ID()).Return(subject, nil)

		_, err := handler.Handle(ctx, GetTaskQuery{UserID: userID, TaskID: subject.ID()})

		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("missing task propagates not found", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		tuningRepo := new(mockTuningRepo)
		handler := NewGetTaskHandler(taskRepo, tuningRepo)

		missing := uuid.New()
		taskRepo.On("FindByID", ctx, missing).Return(nil, task.ErrNotFound)

		_, err := handler.Handle(ctx, GetTaskQuery{UserID: userID, TaskID: missing})

		assert.ErrorIs(t, err, task.ErrNotFound)
	})
}
