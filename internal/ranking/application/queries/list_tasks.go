// Package queries implements the read side of the ranking engine.
package queries

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID              uuid.UUID
	Title           string
	Status          string
	Tier            string
	DueDate         *time.Time
	CompletedAt     *time.Time
	Rating          float64
	ComparisonCount int
	New             bool
	RecurringParent bool
	SharedRating    *float64
	CreatedAt       time.Time
}

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID uuid.UUID
	Status string // "all", "pending", "completed", "archived"
	Tier   string // Filter by tier: "high", "medium", "low"
	SortBy string // "rating", "due_date", "created_at"
	Limit  int    // Max number of tasks to return (0 = no limit)
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery. The default order is tier first,
// rating second, which is the order the engine itself ranks in.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var filter task.Filter
	if query.Tier != "" {
		tier, err := value_objects.ParseTier(query.Tier)
		if err != nil {
			return nil, err
		}
		filter.Tiers = []value_objects.Tier{tier}
	}

	var (
		tasks []*task.Task
		err   error
	)
	if query.Status == "" || query.Status == "pending" {
		tasks, err = h.taskRepo.FindPending(ctx, query.UserID, filter)
	} else {
		tasks, err = h.taskRepo.FindByUserID(ctx, query.UserID)
		if err == nil {
			tasks = filterTasks(tasks, query.Status, filter.Tiers)
		}
	}
	if err != nil {
		return nil, err
	}

	sortTasks(tasks, query.SortBy)

	if query.Limit > 0 && len(tasks) > query.Limit {
		tasks = tasks[:query.Limit]
	}

	return toTaskDTOs(tasks), nil
}

func filterTasks(tasks []*task.Task, status string, tiers []value_objects.Tier) []*task.Task {
	var filtered []*task.Task
	for _, t := range tasks {
		if status != "all" && t.Status().String() != status {
			continue
		}
		if len(tiers) > 0 && !containsTier(tiers, t.Tier()) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func containsTier(tiers []value_objects.Tier, tier value_objects.Tier) bool {
	for _, candidate := range tiers {
		if candidate == tier {
			return true
		}
	}
	return false
}

func sortTasks(tasks []*task.Task, sortBy string) {
	switch sortBy {
	case "due_date":
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := tasks[i].DueDate(), tasks[j].DueDate()
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		})
	case "created_at":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt().Before(tasks[j].CreatedAt())
		})
	default: // tier first, rating second
		sort.SliceStable(tasks, func(i, j int) bool {
			if tasks[i].Tier() != tasks[j].Tier() {
				return tasks[i].Tier().Weight() > tasks[j].Tier().Weight()
			}
			return tasks[i].Rating() > tasks[j].Rating()
		})
	}
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}

func toTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:              t.ID(),
		Title:           t.Title(),
		Status:          t.Status().String(),
		Tier:            t.Tier().String(),
		DueDate:         t.DueDate(),
		CompletedAt:     t.CompletedAt(),
		Rating:          t.Rating(),
		ComparisonCount: t.ComparisonCount(),
		New:             t.IsNew(),
		RecurringParent: t.IsRecurringParent(),
		SharedRating:    t.SharedRating(),
		CreatedAt:       t.CreatedAt(),
	}
}
