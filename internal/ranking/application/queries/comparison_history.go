package queries

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/google/uuid"
)

// DeletedTaskLabel stands in for the title of a task that no longer
// exists but is still referenced by history records.
const DeletedTaskLabel = "(deleted task)"

// HistoryEntryDTO is one comparison seen from the queried task's side.
type HistoryEntryDTO struct {
	RecordID       uuid.UUID
	OpponentTaskID uuid.UUID
	OpponentTitle  string
	Won            bool
	// Adjustment is the rating-point magnitude the loser moved by.
	Adjustment float64
	ComparedAt time.Time
}

// ComparisonHistoryQuery contains the parameters for reading a task's
// comparison history.
type ComparisonHistoryQuery struct {
	UserID uuid.UUID
	TaskID uuid.UUID
	Limit  int // 0 = no limit
}

// ComparisonHistoryHandler handles the ComparisonHistoryQuery.
type ComparisonHistoryHandler struct {
	taskRepo       task.Repository
	comparisonRepo comparison.Repository
}

// NewComparisonHistoryHandler creates a new ComparisonHistoryHandler.
func NewComparisonHistoryHandler(taskRepo task.Repository, comparisonRepo comparison.Repository) *ComparisonHistoryHandler {
	return &ComparisonHistoryHandler{taskRepo: taskRepo, comparisonRepo: comparisonRepo}
}

// Handle executes the ComparisonHistoryQuery, most recent first.
// Opponents that were deleted since the comparison keep their record but
// read with a placeholder title.
func (h *ComparisonHistoryHandler) Handle(ctx context.Context, query ComparisonHistoryQuery) ([]HistoryEntryDTO, error) {
	subject, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	if subject.UserID() != query.UserID {
		return nil, task.ErrNotFound
	}

	records, err := h.comparisonRepo.ListByTask(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}

	if query.Limit > 0 && len(records) > query.Limit {
		records = records[:query.Limit]
	}

	titles := make(map[uuid.UUID]string)
	entries := make([]HistoryEntryDTO, 0, len(records))
	for _, record := range records {
		won := record.WinnerTaskID == query.TaskID
		opponentID := record.WinnerTaskID
		if won {
			opponentID = record.LoserTaskID
		}

		title, ok := titles[opponentID]
		if !ok {
			title, err = h.opponentTitle(ctx, opponentID)
			if err != nil {
				return nil, err
			}
			titles[opponentID] = title
		}

		entries = append(entries, HistoryEntryDTO{
			RecordID:       record.ID,
			OpponentTaskID: opponentID,
			OpponentTitle:  title,
			Won:            won,
			Adjustment:     record.Adjustment,
			ComparedAt:     record.ComparedAt,
		})
	}

	return entries, nil
}

func (h *ComparisonHistoryHandler) opponentTitle(ctx context.Context, id uuid.UUID) (string, error) {
	opponent, err := h.taskRepo.FindByID(ctx, id)
	if errors.Is(err, task.ErrNotFound) {
		return DeletedTaskLabel, nil
	}
	if err != nil {
		return "", err
	}
	return opponent.Title(), nil
}
