package persistence

import (
	"context"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	sharedPersistence "github.com/felixgeelhaar/nextup/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresComparisonRepository implements comparison.Repository using
// PostgreSQL.
type PostgresComparisonRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresComparisonRepository creates a new PostgreSQL comparison
// repository.
func NewPostgresComparisonRepository(pool *pgxpool.Pool) *PostgresComparisonRepository {
	return &PostgresComparisonRepository{pool: pool}
}

func (r *PostgresComparisonRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// Append stores a comparison record.
func (r *PostgresComparisonRepository) Append(ctx context.Context, record *comparison.Record) error {
	query := `
		INSERT INTO comparisons (id, user_id, winner_task_id, loser_task_id, adjustment, compared_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.executor(ctx).Exec(ctx, query,
		record.ID,
		record.UserID,
		record.WinnerTaskID,
		record.LoserTaskID,
		record.Adjustment,
		record.ComparedAt,
	)
	return err
}

// ListByTask returns records involving the task, most recent first.
func (r *PostgresComparisonRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*comparison.Record, error) {
	query := `
		SELECT id, user_id, winner_task_id, loser_task_id, adjustment, compared_at
		FROM comparisons
		WHERE winner_task_id = $1 OR loser_task_id = $1
		ORDER BY compared_at DESC
	`
	rows, err := r.executor(ctx).Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*comparison.Record
	for rows.Next() {
		record := &comparison.Record{}
		err := rows.Scan(&record.ID, &record.UserID, &record.WinnerTaskID,
			&record.LoserTaskID, &record.Adjustment, &record.ComparedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteByTask removes all records involving the task.
func (r *PostgresComparisonRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	query := `DELETE FROM comparisons WHERE winner_task_id = $1 OR loser_task_id = $1`
	_, err := r.executor(ctx).Exec(ctx, query, taskID)
	return err
}

// DeleteAll removes every record of a user.
func (r *PostgresComparisonRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	_, err := r.executor(ctx).Exec(ctx, `DELETE FROM comparisons WHERE user_id = $1`, userID)
	return err
}
