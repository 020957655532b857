package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("moving to another tier keeps the rating", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(taskRepo, uow, nil, testLogger())

		subject := rehydratedTask(t, userID, value_objects.TierLow, 1640, 9)

		ctx := context.Background()
		txCtx := testTx(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, subject.ID()).Return(subject, nil)
		taskRepo.On("Save", txCtx, subject).Return(nil)

		tier := "high"
		err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID: subject.ID(),
			UserID: userID,
			Tier:   &tier,
		})

		require.NoError(t, err)
		assert.Equal(t, value_objects.TierHigh, subject.Tier())
		assert.InDelta(t, 1640.0, subject.Rating(), 1e-9)
		assert.Equal(t, 9, subject.ComparisonCount())
	})

	t.Run("updates title and due date together", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(taskRepo, uow, nil, testLogger())

		subject := rehydratedTask(t, userID, value_objects.TierMedium, 1500, 0)

		ctx := context.Background()
		txCtx := testTx(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, subject.ID()).Return(subject, nil)
		taskRepo.On("Save", txCtx, subject).Return(nil)

		title := "renamed"
		due := time.Now().UTC().Add(72 * time.Hour)
		err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID:  subject.ID(),
			UserID:  userID,
			Title:   &title,
			DueDate: &due,
		})

		require.NoError(t, err)
		assert.Equal(t, "renamed", subject.Title())
		require.NotNil(t, subject.DueDate())
		assert.True(t, subject.DueDate().Equal(due))
	})

	t.Run("clears the due date", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(taskRepo, uow, nil, testLogger())

		subject := rehydratedTask(t, userID, value_objects.TierMedium, 1500, 0)
		due := time.Now().UTC().Add(24 * time.Hour)
		require.NoError(t, subject.SetDueDate(&due))

		ctx := context.Background()
		txCtx := testTx(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, subject.ID()).Return(subject, nil)
		taskRepo.On("Save", txCtx, subject).Return(nil)

		err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID:       subject.ID(),
			UserID:       userID,
			ClearDueDate: true,
		})

		require.NoError(t, err)
		assert.Nil(t, subject.DueDate())
	})

	t.Run("rejects an invalid tier without saving", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(taskRepo, uow, nil, testLogger())

		subject := rehydratedTask(t, userID, value_objects.TierMedium, 1500, 0)

		ctx := context.Background()
		txCtx := testTx(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, subject.ID()).Return(subject, nil)

		tier := "critical"
		err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID: subject.ID(),
			UserID: userID,
			Tier:   &tier,
		})

		assert.ErrorIs(t, err, value_objects.ErrInvalidTier)
		taskRepo.AssertNotCalled(t, "Save", txCtx, subject)
	})

	t.Run("rejects a task owned by another user", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(taskRepo, uow, nil, testLogger())

		subject := rehydratedTask(t, uuid.New(), value_objects.TierMedium, 1500, 0)

		ctx := context.Background()
		txCtx := testTx(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, subject.ID()).Return(subject, nil)

		title := "stolen"
		err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID: subject.ID(),
			UserID: userID,
			Title:  &title,
		})

		assert.ErrorIs(t, err, ErrNotOwned)
	})
}
