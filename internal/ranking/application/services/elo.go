package services

import (
	"math"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
)

// ComparisonOutcome describes the rating changes from one pairwise
// comparison. Deltas are magnitudes.
type ComparisonOutcome struct {
	WinnerRating float64
	LoserRating  float64
	WinnerDelta  float64
	LoserDelta   float64
}

// RatingCalculator computes Elo rating updates for pairwise comparisons.
// It is pure: it never mutates the tasks it reads.
type RatingCalculator struct {
	config tuning.Tuning
}

// NewRatingCalculator creates a calculator with the given parameters.
func NewRatingCalculator(cfg tuning.Tuning) *RatingCalculator {
	return &RatingCalculator{config: cfg}
}

// Expected returns the expected score of a player rated ra against one
// rated rb: 1 / (1 + 10^((rb-ra)/400)).
func (c *RatingCalculator) Expected(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (rb-ra)/400.0))
}

// Resolve computes new ratings for a decided pair. The K-factor is
// chosen per task from that task's own comparison count, so a new task
// moves faster than an established one in the same comparison.
func (c *RatingCalculator) Resolve(winner, loser *task.Task) (ComparisonOutcome, error) {
	if err := winner.ValidateComparableWith(loser); err != nil {
		return ComparisonOutcome{}, err
	}

	expectedWinner := c.Expected(winner.Rating(), loser.Rating())
	expectedLoser := c.Expected(loser.Rating(), winner.Rating())

	kWinner := c.config.KFactorFor(winner.ComparisonCount())
	kLoser := c.config.KFactorFor(loser.ComparisonCount())

	winnerDelta := kWinner * (1.0 - expectedWinner)
	loserDelta := kLoser * expectedLoser

	return ComparisonOutcome{
		WinnerRating: winner.Rating() + winnerDelta,
		LoserRating:  loser.Rating() - loserDelta,
		WinnerDelta:  winnerDelta,
		LoserDelta:   loserDelta,
	}, nil
}
