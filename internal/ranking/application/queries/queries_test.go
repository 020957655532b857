package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockTaskRepo is a mock implementation of task.Repository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindPending(ctx context.Context, userID uuid.UUID, filter task.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockComparisonRepo is a mock implementation of comparison.Repository.
type mockComparisonRepo struct {
	mock.Mock
}

func (m *mockComparisonRepo) Append(ctx context.Context, record *comparison.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockComparisonRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*comparison.Record, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*comparison.Record), args.Error(1)
}

func (m *mockComparisonRepo) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *mockComparisonRepo) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// mockTuningRepo is a mock implementation of tuning.Repository.
type mockTuningRepo struct {
	mock.Mock
}

func (m *mockTuningRepo) Load(ctx context.Context, userID uuid.UUID) (tuning.Tuning, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(tuning.Tuning), args.Error(1)
}

func (m *mockTuningRepo) Save(ctx context.Context, userID uuid.UUID, t tuning.Tuning) error {
	args := m.Called(ctx, userID, t)
	return args.Error(0)
}

func rehydratedTask(t *testing.T, userID uuid.UUID, title string, tier value_objects.Tier, rating float64, comparisons int) *task.Task {
	t.Helper()
	now := time.Now().UTC()
	return task.Rehydrate(task.RehydrateParams{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		Status:          task.StatusPending,
		Tier:            tier,
		Rating:          rating,
		ComparisonCount: comparisons,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}
