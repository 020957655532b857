package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/services"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/google/uuid"
)

// GetTaskQuery contains the parameters for fetching a single task.
type GetTaskQuery struct {
	UserID uuid.UUID
	TaskID uuid.UUID
}

// TaskDetailDTO is a TaskDTO plus the derived importance score.
type TaskDetailDTO struct {
	TaskDTO
	Importance float64
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo   task.Repository
	tuningRepo tuning.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository, tuningRepo tuning.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo, tuningRepo: tuningRepo}
}

// Handle executes the GetTaskQuery. A task belonging to another user
// reads as not found.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDetailDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	if t.UserID() != query.UserID {
		return nil, task.ErrNotFound
	}

	cfg, err := h.tuningRepo.Load(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	return &TaskDetailDTO{
		TaskDTO:    toTaskDTO(t),
		Importance: services.NewImportanceScorer(cfg).Score(t, time.Now().UTC()),
	}, nil
}
