package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	sharedPersistence "github.com/felixgeelhaar/nextup/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTuningRepository implements tuning.Repository using PostgreSQL.
type PostgresTuningRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTuningRepository creates a new PostgreSQL tuning repository.
func NewPostgresTuningRepository(pool *pgxpool.Pool) *PostgresTuningRepository {
	return &PostgresTuningRepository{pool: pool}
}

func (r *PostgresTuningRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// Load returns the stored tuning, or the defaults when none exists.
func (r *PostgresTuningRepository) Load(ctx context.Context, userID uuid.UUID) (tuning.Tuning, error) {
	query := `
		SELECT k_factor_new, k_factor_established, new_task_threshold,
			tie_epsilon, default_rating, urgency_weight, initial_spread
		FROM ranking_settings
		WHERE user_id = $1
	`

	var t tuning.Tuning
	err := r.executor(ctx).QueryRow(ctx, query, userID).Scan(
		&t.KFactorNew,
		&t.KFactorEstablished,
		&t.NewTaskThreshold,
		&t.TieEpsilon,
		&t.DefaultRating,
		&t.UrgencyWeight,
		&t.InitialSpread,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return tuning.Default(), nil
	}
	if err != nil {
		return tuning.Tuning{}, err
	}
	return t, nil
}

// Save stores the tuning for a user.
func (r *PostgresTuningRepository) Save(ctx context.Context, userID uuid.UUID, t tuning.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO ranking_settings (user_id, k_factor_new, k_factor_established,
			new_task_threshold, tie_epsilon, default_rating, urgency_weight,
			initial_spread, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			k_factor_new = EXCLUDED.k_factor_new,
			k_factor_established = EXCLUDED.k_factor_established,
			new_task_threshold = EXCLUDED.new_task_threshold,
			tie_epsilon = EXCLUDED.tie_epsilon,
			default_rating = EXCLUDED.default_rating,
			urgency_weight = EXCLUDED.urgency_weight,
			initial_spread = EXCLUDED.initial_spread,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		userID,
		t.KFactorNew,
		t.KFactorEstablished,
		t.NewTaskThreshold,
		t.TieEpsilon,
		t.DefaultRating,
		t.UrgencyWeight,
		t.InitialSpread,
		time.Now().UTC(),
	)
	return err
}
