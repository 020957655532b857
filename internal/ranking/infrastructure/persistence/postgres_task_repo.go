package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	sharedPersistence "github.com/felixgeelhaar/nextup/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

func (r *PostgresTaskRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// Save persists a task, inserting or updating as needed.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			tier = EXCLUDED.tier,
			due_date = EXCLUDED.due_date,
			completed_at = EXCLUDED.completed_at,
			rating = EXCLUDED.rating,
			comparison_count = EXCLUDED.comparison_count,
			is_recurring_parent = EXCLUDED.is_recurring_parent,
			recurrence_parent_id = EXCLUDED.recurrence_parent_id,
			share_rating = EXCLUDED.share_rating,
			shared_rating = EXCLUDED.shared_rating,
			legacy_adjustment = EXCLUDED.legacy_adjustment,
			legacy_loss_count = EXCLUDED.legacy_loss_count,
			version = EXCLUDED.version + 1,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		t.ID(),
		t.UserID(),
		t.Title(),
		t.Status().String(),
		t.Tier().String(),
		t.DueDate(),
		t.CompletedAt(),
		t.Rating(),
		t.ComparisonCount(),
		t.IsRecurringParent(),
		t.RecurrenceParentID(),
		t.SharesRating(),
		t.SharedRating(),
		t.LegacyAdjustment(),
		t.LegacyLossCount(),
		t.Version(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	row := r.executor(ctx).QueryRow(ctx, query, id)
	t, err := scanPostgresTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, task.ErrNotFound
	}
	return t, err
}

// FindByUserID retrieves all tasks for a user.
func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.executor(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresTasks(rows)
}

// FindPending retrieves pending tasks for a user, optionally narrowed to
// specific tiers.
func (r *PostgresTaskRepository) FindPending(ctx context.Context, userID uuid.UUID, filter task.Filter) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND status = 'pending'`
	args := []any{userID}

	if len(filter.Tiers) > 0 {
		placeholders := make([]string, len(filter.Tiers))
		for i, tier := range filter.Tiers {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, tier.String())
		}
		query += fmt.Sprintf(" AND tier IN (%s)", strings.Join(placeholders, ", "))
	}
	query += " ORDER BY rating DESC"

	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresTasks(rows)
}

// Delete removes a task.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.executor(ctx).Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func scanPostgresTask(row pgx.Row) (*task.Task, error) {
	var (
		params               task.RehydrateParams
		status, tier         string
		dueDate, completedAt *time.Time
	)

	err := row.Scan(&params.ID, &params.UserID, &params.Title, &status, &tier,
		&dueDate, &completedAt, &params.Rating, &params.ComparisonCount,
		&params.IsRecurringParent, &params.RecurrenceParentID,
		&params.ShareRating, &params.SharedRating, &params.LegacyAdjustment,
		&params.LegacyLossCount, &params.Version, &params.CreatedAt, &params.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if params.Status, err = task.ParseStatus(status); err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}
	if params.Tier, err = value_objects.ParseTier(tier); err != nil {
		return nil, fmt.Errorf("invalid tier in database: %w", err)
	}
	params.DueDate = dueDate
	params.CompletedAt = completedAt

	return task.Rehydrate(params), nil
}

func scanPostgresTasks(rows pgx.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := scanPostgresTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
