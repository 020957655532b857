package task

import (
	"github.com/felixgeelhaar/nextup/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated   = "ranking.task.created"
	RoutingKeyCompared  = "ranking.task.compared"
	RoutingKeyRanked    = "ranking.task.ranked"
	RoutingKeyReset     = "ranking.task.reset"
	RoutingKeyCompleted = "ranking.task.completed"
	RoutingKeyArchived  = "ranking.task.archived"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title string `json:"title"`
	Tier  string `json:"tier"`
}

// NewTaskCreated creates a TaskCreated event. Event constructors return
// pointers so envelope metadata can be set in place before publishing.
func NewTaskCreated(taskID uuid.UUID, title, tier string) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		Title:     title,
		Tier:      tier,
	}
}

// TaskCompared is emitted when the task participates in a pairwise
// comparison.
type TaskCompared struct {
	domain.BaseEvent
	OpponentID uuid.UUID `json:"opponent_id"`
	Won        bool      `json:"won"`
	Delta      float64   `json:"delta"` // Magnitude of the rating change
}

// NewTaskCompared creates a TaskCompared event.
func NewTaskCompared(taskID, opponentID uuid.UUID, won bool, delta float64) *TaskCompared {
	return &TaskCompared{
		BaseEvent:  domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompared),
		OpponentID: opponentID,
		Won:        won,
		Delta:      delta,
	}
}

// TaskRanked is emitted when a new task receives its interpolated
// initial rating.
type TaskRanked struct {
	domain.BaseEvent
	Rating float64 `json:"rating"`
}

// NewTaskRanked creates a TaskRanked event.
func NewTaskRanked(taskID uuid.UUID, rating float64) *TaskRanked {
	return &TaskRanked{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyRanked),
		Rating:    rating,
	}
}

// TaskRatingReset is emitted when a task's rating state is reset.
type TaskRatingReset struct {
	domain.BaseEvent
	Rating float64 `json:"rating"`
}

// NewTaskRatingReset creates a TaskRatingReset event.
func NewTaskRatingReset(taskID uuid.UUID, rating float64) *TaskRatingReset {
	return &TaskRatingReset{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyReset),
		Rating:    rating,
	}
}

// TaskCompleted is emitted when a task is completed.
type TaskCompleted struct {
	domain.BaseEvent
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID uuid.UUID) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
	}
}

// TaskArchived is emitted when a task is archived.
type TaskArchived struct {
	domain.BaseEvent
}

// NewTaskArchived creates a TaskArchived event.
func NewTaskArchived(taskID uuid.UUID) *TaskArchived {
	return &TaskArchived{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyArchived),
	}
}
