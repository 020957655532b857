// Package comparison holds the append-only log of pairwise outcomes.
package comparison

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record captures one pairwise outcome. Records are immutable once
// written; only whole-task resets delete them.
type Record struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	WinnerTaskID uuid.UUID
	LoserTaskID  uuid.UUID
	// Adjustment is the magnitude of the rating delta applied to the loser.
	Adjustment float64
	ComparedAt time.Time
}

// NewRecord creates a comparison record for a decided pair.
func NewRecord(userID, winnerTaskID, loserTaskID uuid.UUID, adjustment float64) *Record {
	return &Record{
		ID:           uuid.New(),
		UserID:       userID,
		WinnerTaskID: winnerTaskID,
		LoserTaskID:  loserTaskID,
		Adjustment:   adjustment,
		ComparedAt:   time.Now().UTC(),
	}
}

// Repository defines persistence for comparison records.
type Repository interface {
	Append(ctx context.Context, record *Record) error
	// ListByTask returns records where the task appears as winner or
	// loser, most recent first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*Record, error)
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}
