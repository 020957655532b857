package task

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no task matches the requested id.
var ErrNotFound = errors.New("task not found")

// Filter narrows the candidate set for listing and focus selection.
// Zero-value fields are ignored.
type Filter struct {
	Tiers []value_objects.Tier
}

// Repository defines the interface for task persistence.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	FindPending(ctx context.Context, userID uuid.UUID, filter Filter) ([]*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
