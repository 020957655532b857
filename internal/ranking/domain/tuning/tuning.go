// Package tuning holds the hot-reloadable parameters of the ranking
// engine. Every engine invocation loads the current values, so edits
// take effect without a restart.
package tuning

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Defaults for a fresh installation.
const (
	DefaultKFactorNew         = 32.0
	DefaultKFactorEstablished = 16.0
	DefaultNewTaskThreshold   = 10
	DefaultTieEpsilon         = 0.01
	DefaultRating             = 1500.0
	DefaultUrgencyWeight      = 0.1
	DefaultInitialSpread      = 100.0
)

var (
	ErrInvalidKFactor   = errors.New("k-factor must be positive")
	ErrInvalidThreshold = errors.New("new-task threshold must be non-negative")
	ErrInvalidEpsilon   = errors.New("tie epsilon must be positive")
	ErrInvalidSpread    = errors.New("initial spread must be positive")
)

// Tuning bundles the engine parameters.
type Tuning struct {
	// KFactorNew applies to tasks below NewTaskThreshold comparisons;
	// KFactorEstablished applies at or above it.
	KFactorNew         float64
	KFactorEstablished float64
	NewTaskThreshold   int

	// TieEpsilon is the importance-score gap below which tasks are
	// considered tied and need human disambiguation.
	TieEpsilon float64

	// DefaultRating is the anchor assigned to brand-new tasks.
	DefaultRating float64

	// UrgencyWeight scales how much due-date urgency shifts the
	// importance score relative to the rating.
	UrgencyWeight float64

	// InitialSpread is the half-width of the rating band used when a
	// tier has no (or only one) anchor for initial ranking.
	InitialSpread float64
}

// Default returns the stock engine parameters.
func Default() Tuning {
	return Tuning{
		KFactorNew:         DefaultKFactorNew,
		KFactorEstablished: DefaultKFactorEstablished,
		NewTaskThreshold:   DefaultNewTaskThreshold,
		TieEpsilon:         DefaultTieEpsilon,
		DefaultRating:      DefaultRating,
		UrgencyWeight:      DefaultUrgencyWeight,
		InitialSpread:      DefaultInitialSpread,
	}
}

// Validate checks the parameters for internal consistency.
func (t Tuning) Validate() error {
	if t.KFactorNew <= 0 || t.KFactorEstablished <= 0 {
		return ErrInvalidKFactor
	}
	if t.NewTaskThreshold < 0 {
		return ErrInvalidThreshold
	}
	if t.TieEpsilon <= 0 {
		return ErrInvalidEpsilon
	}
	if t.InitialSpread <= 0 {
		return ErrInvalidSpread
	}
	return nil
}

// KFactorFor returns the K-factor for a task with the given comparison
// count.
func (t Tuning) KFactorFor(comparisonCount int) float64 {
	if comparisonCount < t.NewTaskThreshold {
		return t.KFactorNew
	}
	return t.KFactorEstablished
}

// Repository defines storage for per-user tuning.
type Repository interface {
	// Load returns the stored tuning, or Default() when none exists.
	Load(ctx context.Context, userID uuid.UUID) (Tuning, error)
	Save(ctx context.Context, userID uuid.UUID, t Tuning) error
}
