package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	sharedPersistence "github.com/felixgeelhaar/nextup/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteComparisonRepository implements comparison.Repository using SQLite.
type SQLiteComparisonRepository struct {
	db *sql.DB
}

// NewSQLiteComparisonRepository creates a new SQLite comparison repository.
func NewSQLiteComparisonRepository(db *sql.DB) *SQLiteComparisonRepository {
	return &SQLiteComparisonRepository{db: db}
}

func (r *SQLiteComparisonRepository) querier(ctx context.Context) sharedPersistence.SQLiteExecutor {
	return sharedPersistence.SQLiteQuerier(ctx, r.db)
}

// Append stores a comparison record.
func (r *SQLiteComparisonRepository) Append(ctx context.Context, record *comparison.Record) error {
	query := `
		INSERT INTO comparisons (id, user_id, winner_task_id, loser_task_id, adjustment, compared_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.querier(ctx).ExecContext(ctx, query,
		record.ID.String(),
		record.UserID.String(),
		record.WinnerTaskID.String(),
		record.LoserTaskID.String(),
		record.Adjustment,
		record.ComparedAt.Format(time.RFC3339),
	)
	return err
}

// ListByTask returns records involving the task, most recent first.
func (r *SQLiteComparisonRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*comparison.Record, error) {
	query := `
		SELECT id, user_id, winner_task_id, loser_task_id, adjustment, compared_at
		FROM comparisons
		WHERE winner_task_id = ? OR loser_task_id = ?
		ORDER BY compared_at DESC
	`
	rows, err := r.querier(ctx).QueryContext(ctx, query, taskID.String(), taskID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*comparison.Record
	for rows.Next() {
		record, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteByTask removes all records involving the task.
func (r *SQLiteComparisonRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	query := `DELETE FROM comparisons WHERE winner_task_id = ? OR loser_task_id = ?`
	_, err := r.querier(ctx).ExecContext(ctx, query, taskID.String(), taskID.String())
	return err
}

// DeleteAll removes every record of a user.
func (r *SQLiteComparisonRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	_, err := r.querier(ctx).ExecContext(ctx, `DELETE FROM comparisons WHERE user_id = ?`, userID.String())
	return err
}

func scanComparison(row rowScanner) (*comparison.Record, error) {
	var (
		id, userID, winnerID, loserID string
		adjustment                    float64
		comparedAt                    string
	)
	if err := row.Scan(&id, &userID, &winnerID, &loserID, &adjustment, &comparedAt); err != nil {
		return nil, err
	}

	record := &comparison.Record{Adjustment: adjustment}
	var err error
	if record.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid comparison id: %w", err)
	}
	if record.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	if record.WinnerTaskID, err = uuid.Parse(winnerID); err != nil {
		return nil, fmt.Errorf("invalid winner_task_id: %w", err)
	}
	if record.LoserTaskID, err = uuid.Parse(loserID); err != nil {
		return nil, fmt.Errorf("invalid loser_task_id: %w", err)
	}
	if record.ComparedAt, err = time.Parse(time.RFC3339, comparedAt); err != nil {
		return nil, fmt.Errorf("invalid compared_at: %w", err)
	}
	return record, nil
}
