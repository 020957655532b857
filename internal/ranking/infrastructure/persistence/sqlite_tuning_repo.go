package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	sharedPersistence "github.com/felixgeelhaar/nextup/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteTuningRepository implements tuning.Repository using SQLite.
type SQLiteTuningRepository struct {
	db *sql.DB
}

// NewSQLiteTuningRepository creates a new SQLite tuning repository.
func NewSQLiteTuningRepository(db *sql.DB) *SQLiteTuningRepository {
	return &SQLiteTuningRepository{db: db}
}

func (r *SQLiteTuningRepository) querier(ctx context.Context) sharedPersistence.SQLiteExecutor {
	return sharedPersistence.SQLiteQuerier(ctx, r.db)
}

// Load returns the stored tuning, or the defaults when none exists.
func (r *SQLiteTuningRepository) Load(ctx context.Context, userID uuid.UUID) (tuning.Tuning, error) {
	query := `
		SELECT k_factor_new, k_factor_established, new_task_threshold,
			tie_epsilon, default_rating, urgency_weight, initial_spread
		FROM ranking_settings
		WHERE user_id = ?
	`

	var t tuning.Tuning
	err := r.querier(ctx).QueryRowContext(ctx, query, userID.String()).Scan(
		&t.KFactorNew,
		&t.KFactorEstablished,
		&t.NewTaskThreshold,
		&t.TieEpsilon,
		&t.DefaultRating,
		&t.UrgencyWeight,
		&t.InitialSpread,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return tuning.Default(), nil
	}
	if err != nil {
		return tuning.Tuning{}, err
	}
	return t, nil
}

// Save stores the tuning for a user.
func (r *SQLiteTuningRepository) Save(ctx context.Context, userID uuid.UUID, t tuning.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO ranking_settings (user_id, k_factor_new, k_factor_established,
			new_task_threshold, tie_epsilon, default_rating, urgency_weight,
			initial_spread, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			k_factor_new = excluded.k_factor_new,
			k_factor_established = excluded.k_factor_established,
			new_task_threshold = excluded.new_task_threshold,
			tie_epsilon = excluded.tie_epsilon,
			default_rating = excluded.default_rating,
			urgency_weight = excluded.urgency_weight,
			initial_spread = excluded.initial_spread,
			updated_at = excluded.updated_at
	`

	_, err := r.querier(ctx).ExecContext(ctx, query,
		userID.String(),
		t.KFactorNew,
		t.KFactorEstablished,
		t.NewTaskThreshold,
		t.TieEpsilon,
		t.DefaultRating,
		t.UrgencyWeight,
		t.InitialSpread,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
