package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasksHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("default listing orders by tier then rating", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		lowStrong := rehydratedTask(t, userID, "low strong", value_objects.TierLow, 1900, 5)
		highWeak := rehydratedTask(t, userID, "high weak", value_objects.TierHigh, 1400, 5)
		highStrong := rehydratedTask(t, userID, "high strong", value_objects.TierHigh, 1600, 5)

		ctx := context.Background()
		taskRepo.On("FindPending", ctx, userID, task.Filter{}).
			Return([]*task.Task{lowStrong, highWeak, highStrong}, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID})

		require.NoError(t, err)
		require.Len(t, dtos, 3)
		assert.Equal(t, "high strong", dtos[0].Title)
		assert.Equal(t, "high weak", dtos[1].Title)
		assert.Equal(t, "low strong", dtos[2].Title)
	})

	t.Run("tier filter is pushed into the repository", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		filter := task.Filter{Tiers: []value_objects.Tier{value_objects.TierHigh}}
		only := rehydratedTask(t, userID, "only", value_objects.TierHigh, 1500, 1)

		ctx := context.Background()
		taskRepo.On("FindPending", ctx, userID, filter).Return([]*task.Task{only}, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID, Tier: "high"})

		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "only", dtos[0].Title)
		taskRepo.AssertExpectations(t)
	})

	t.Run("status filter selects completed tasks", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		done := rehydratedTask(t, userID, "done", value_objects.TierMedium, 1520, 6)
		require.NoError(t, done.Complete())
		open := rehydratedTask(t, userID, "open", value_objects.TierMedium, 1500, 2)

		ctx := context.Background()
		taskRepo.On("FindByUserID", ctx, userID).Return([]*task.Task{done, open}, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID, Status: "completed"})

		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "done", dtos[0].Title)
		assert.NotNil(t, dtos[0].CompletedAt)
	})

	t.Run("limit truncates the result", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		tasks := []*task.Task{
			rehydratedTask(t, userID, "a", value_objects.TierMedium, 1600, 5),
			rehydratedTask(t, userID, "b", value_objects.TierMedium, 1500, 5),
			rehydratedTask(t, userID, "c", value_objects.TierMedium, 1400, 5),
		}

		ctx := context.Background()
		taskRepo.On("FindPending", ctx, userID, task.Filter{}).Return(tasks, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID, Limit: 2})

		require.NoError(t, err)
		assert.Len(t, dtos, 2)
	})

	t.Run("invalid tier name is rejected", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		_, err := handler.Handle(context.Background(), ListTasksQuery{UserID: userID, Tier: "severe"})

		assert.ErrorIs(t, err, value_objects.ErrInvalidTier)
	})
}
