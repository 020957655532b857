package services

import (
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
)

// urgencyHorizonDays is the window inside which a due date starts
// raising a task's importance.
const urgencyHorizonDays = 14.0

// ImportanceScorer blends rating and due-date urgency into one sortable
// importance score. Tier never enters the score; selection partitions by
// tier first, so tier ordering stays the primary key structurally.
//
// The score is rating normalized by the default anchor plus a weighted
// urgency term, which keeps the configured tie epsilon meaningful: two
// equal-rated tasks score identically, and a single recorded comparison
// (default K 32 on a 1500 anchor) separates them by ~0.021, clearing the
// default epsilon of 0.01.
type ImportanceScorer struct {
	config tuning.Tuning
}

// NewImportanceScorer creates a scorer with the given parameters.
func NewImportanceScorer(cfg tuning.Tuning) *ImportanceScorer {
	return &ImportanceScorer{config: cfg}
}

// Score computes the importance of a task at the given instant.
// Monotonic in rating and in urgency.
func (s *ImportanceScorer) Score(t *task.Task, now time.Time) float64 {
	base := t.Rating() / s.config.DefaultRating
	return base + s.config.UrgencyWeight*s.urgency(t.DueDate(), now)
}

// urgency maps a due date to [0,1]: overdue tasks saturate at 1, tasks
// without a due date contribute 0, and anything inside the horizon ramps
// linearly.
func (s *ImportanceScorer) urgency(due *time.Time, now time.Time) float64 {
	if due == nil {
		return 0
	}
	days := due.Sub(now).Hours() / 24
	if days < 0 {
		return 1
	}
	return clamp01((urgencyHorizonDays - days) / urgencyHorizonDays)
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
