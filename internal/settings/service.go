// Package settings manages the user-adjustable ranking parameters.
package settings

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/google/uuid"
)

// Update carries a partial tuning change. Nil fields keep their current
// value.
type Update struct {
	KFactorNew         *float64
	KFactorEstablished *float64
	NewTaskThreshold   *int
	TieEpsilon         *float64
	DefaultRating      *float64
	UrgencyWeight      *float64
	InitialSpread      *float64
}

// Service reads and writes ranking tuning.
type Service struct {
	tuningRepo tuning.Repository
	logger     *slog.Logger
}

// NewService creates a settings service.
func NewService(tuningRepo tuning.Repository, logger *slog.Logger) *Service {
	return &Service{tuningRepo: tuningRepo, logger: logger}
}

// Get returns the current tuning for a user.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (tuning.Tuning, error) {
	return s.tuningRepo.Load(ctx, userID)
}

// Apply merges the update into the stored tuning, validates the result,
// and persists it. Changes affect only future comparisons; existing
// ratings are never recomputed.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, update Update) (tuning.Tuning, error) {
	current, err := s.tuningRepo.Load(ctx, userID)
	if err != nil {
		return tuning.Tuning{}, err
	}

	if update.KFactorNew != nil {
		current.KFactorNew = *update.KFactorNew
	}
	if update.KFactorEstablished != nil {
		current.KFactorEstablished = *update.KFactorEstablished
	}
	if update.NewTaskThreshold != nil {
		current.NewTaskThreshold = *update.NewTaskThreshold
	}
	if update.TieEpsilon != nil {
		current.TieEpsilon = *update.TieEpsilon
	}
	if update.DefaultRating != nil {
		current.DefaultRating = *update.DefaultRating
	}
	if update.UrgencyWeight != nil {
		current.UrgencyWeight = *update.UrgencyWeight
	}
	if update.InitialSpread != nil {
		current.InitialSpread = *update.InitialSpread
	}

	if err := current.Validate(); err != nil {
		return tuning.Tuning{}, err
	}

	if err := s.tuningRepo.Save(ctx, userID, current); err != nil {
		return tuning.Tuning{}, err
	}

	s.logger.InfoContext(ctx, "ranking settings updated",
		slog.String("user_id", userID.String()))

	return current, nil
}

// Reset restores the stock tuning.
func (s *Service) Reset(ctx context.Context, userID uuid.UUID) (tuning.Tuning, error) {
	defaults := tuning.Default()
	if err := s.tuningRepo.Save(ctx, userID, defaults); err != nil {
		return tuning.Tuning{}, err
	}
	return defaults, nil
}
