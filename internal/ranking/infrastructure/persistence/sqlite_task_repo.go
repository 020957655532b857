// Package persistence provides database implementations for the ranking
// repositories.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/task"
	"github.com/felixgeelhaar/nextup/internal/ranking/domain/value_objects"
	sharedPersistence "github.com/felixgeelhaar/nextup/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

const taskColumns = `id, user_id, title, status, tier, due_date, completed_at,
	rating, comparison_count, is_recurring_parent, recurrence_parent_id,
	share_rating, shared_rating, legacy_adjustment, legacy_loss_count,
	version, created_at, updated_at`

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

func (r *SQLiteTaskRepository) querier(ctx context.Context) sharedPersistence.SQLiteExecutor {
	return sharedPersistence.SQLiteQuerier(ctx, r.db)
}

// Save persists a task, inserting or updating as needed.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			tier = excluded.tier,
			due_date = excluded.due_date,
			completed_at = excluded.completed_at,
			rating = excluded.rating,
			comparison_count = excluded.comparison_count,
			is_recurring_parent = excluded.is_recurring_parent,
			recurrence_parent_id = excluded.recurrence_parent_id,
			share_rating = excluded.share_rating,
			shared_rating = excluded.shared_rating,
			legacy_adjustment = excluded.legacy_adjustment,
			legacy_loss_count = excluded.legacy_loss_count,
			version = excluded.version + 1,
			updated_at = excluded.updated_at
	`

	var recurrenceParentID sql.NullString
	if t.RecurrenceParentID() != nil {
		recurrenceParentID = sql.NullString{String: t.RecurrenceParentID().String(), Valid: true}
	}

	var sharedRating sql.NullFloat64
	if t.SharedRating() != nil {
		sharedRating = sql.NullFloat64{Float64: *t.SharedRating(), Valid: true}
	}

	_, err := r.querier(ctx).ExecContext(ctx, query,
		t.ID().String(),
		t.UserID().String(),
		t.Title(),
		t.Status().String(),
		t.Tier().String(),
		toNullTimeString(t.DueDate()),
		toNullTimeString(t.CompletedAt()),
		t.Rating(),
		t.ComparisonCount(),
		boolToInt(t.IsRecurringParent()),
		recurrenceParentID,
		boolToInt(t.SharesRating()),
		sharedRating,
		t.LegacyAdjustment(),
		t.LegacyLossCount(),
		t.Version(),
		t.CreatedAt().Format(time.RFC3339),
		t.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	row := r.querier(ctx).QueryRowContext(ctx, query, id.String())
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrNotFound
	}
	return t, err
}

// FindByUserID retrieves all tasks for a user.
func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY created_at`

	rows, err := r.querier(ctx).QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// FindPending retrieves pending tasks for a user, optionally narrowed to
// specific tiers.
func (r *SQLiteTaskRepository) FindPending(ctx context.Context, userID uuid.UUID, filter task.Filter) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? AND status = 'pending'`
	args := []any{userID.String()}

	if len(filter.Tiers) > 0 {
		placeholders := make([]string, len(filter.Tiers))
		for i, tier := range filter.Tiers {
			placeholders[i] = "?"
			args = append(args, tier.String())
		}
		query += fmt.Sprintf(" AND tier IN (%s)", strings.Join(placeholders, ", "))
	}
	query += " ORDER BY rating DESC"

	rows, err := r.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Delete removes a task.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.querier(ctx).ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		id, userID, title, status, tier string
		dueDate, completedAt            sql.NullString
		rating                          float64
		comparisonCount                 int
		isRecurringParent               int
		recurrenceParentID              sql.NullString
		shareRating                     int
		sharedRating                    sql.NullFloat64
		legacyAdjustment                float64
		legacyLossCount                 int
		version                         int
		createdAt, updatedAt            string
	)

	err := row.Scan(&id, &userID, &title, &status, &tier, &dueDate, &completedAt,
		&rating, &comparisonCount, &isRecurringParent, &recurrenceParentID,
		&shareRating, &sharedRating, &legacyAdjustment, &legacyLossCount,
		&version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	params := task.RehydrateParams{
		Rating:            rating,
		ComparisonCount:   comparisonCount,
		IsRecurringParent: isRecurringParent != 0,
		ShareRating:       shareRating != 0,
		LegacyAdjustment:  legacyAdjustment,
		LegacyLossCount:   legacyLossCount,
		Version:           version,
		Title:             title,
	}

	if params.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	if params.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	if params.Status, err = task.ParseStatus(status); err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}
	if params.Tier, err = value_objects.ParseTier(tier); err != nil {
		return nil, fmt.Errorf("invalid tier in database: %w", err)
	}
	if params.DueDate, err = fromNullTimeString(dueDate); err != nil {
		return nil, fmt.Errorf("invalid due_date: %w", err)
	}
	if params.CompletedAt, err = fromNullTimeString(completedAt); err != nil {
		return nil, fmt.Errorf("invalid completed_at: %w", err)
	}
	if recurrenceParentID.Valid {
		parentID, err := uuid.Parse(recurrenceParentID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrence_parent_id: %w", err)
		}
		params.RecurrenceParentID = &parentID
	}
	if sharedRating.Valid {
		value := sharedRating.Float64
		params.SharedRating = &value
	}
	if params.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if params.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	return task.Rehydrate(params), nil
}

func scanTasks(rows *sql.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func toNullTimeString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func fromNullTimeString(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
