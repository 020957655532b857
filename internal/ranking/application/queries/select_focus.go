package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/application/services"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	"github.com/google/uuid"
)

// SelectFocusQuery contains the parameters for a focus-selection pass.
type SelectFocusQuery struct {
	UserID uuid.UUID
	// Tiers restricts selection to the named tiers. Empty means all.
	Tiers []string
	// Now is the selection instant; zero means the current time. Pinning
	// it makes selection reproducible.
	Now time.Time
}

// SelectFocusHandler handles the SelectFocusQuery. Selection itself is a
// pure read; it never writes ratings.
type SelectFocusHandler struct {
	taskRepo   task.Repository
	tuningRepo tuning.Repository
}

// NewSelectFocusHandler creates a new SelectFocusHandler.
func NewSelectFocusHandler(taskRepo task.Repository, tuningRepo tuning.Repository) *SelectFocusHandler {
	return &SelectFocusHandler{taskRepo: taskRepo, tuningRepo: tuningRepo}
}

// Handle executes the SelectFocusQuery.
func (h *SelectFocusHandler) Handle(ctx context.Context, query SelectFocusQuery) (*services.Selection, error) {
	var filter task.Filter
	for _, name := range query.Tiers {
		tier, err := value_objects.ParseTier(name)
		if err != nil {
			return nil, err
		}
		filter.Tiers = append(filter.Tiers, tier)
	}

	cfg, err := h.tuningRepo.Load(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	candidates, err := h.taskRepo.FindPending(ctx, query.UserID, filter)
	if err != nil {
		return nil, err
	}

	now := query.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	selection := services.NewFocusSelector(cfg).Select(candidates, now)
	return &selection, nil
}
