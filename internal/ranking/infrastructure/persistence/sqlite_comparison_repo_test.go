package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/comparison"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteComparisonRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteComparisonRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	createTestUser(t, db, userID)

	t.Run("append and list round-trips", func(t *testing.T) {
		winnerID, loserID := uuid.New(), uuid.New()
		record := comparison.NewRecord(userID, winnerID, loserID, 12.75)
		record.ComparedAt = record.ComparedAt.Truncate(time.Second)

		require.NoError(t, repo.Append(ctx, record))

		records, err := repo.ListByTask(ctx, winnerID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, record.ID, records[0].ID)
		assert.Equal(t, userID, records[0].UserID)
		assert.Equal(t, winnerID, records[0].WinnerTaskID)
		assert.Equal(t, loserID, records[0].LoserTaskID)
		assert.InDelta(t, 12.75, records[0].Adjustment, 1e-9)
		assert.True(t, records[0].ComparedAt.Equal(record.ComparedAt))
	})

	t.Run("list sees the task on both sides, newest first", func(t *testing.T) {
		subjectID, rivalID := uuid.New(), uuid.New()

		older := comparison.NewRecord(userID, subjectID, rivalID, 16)
		older.ComparedAt = time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
		newer := comparison.NewRecord(userID, rivalID, subjectID, 9)
		newer.ComparedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

		require.NoError(t, repo.Append(ctx, older))
		require.NoError(t, repo.Append(ctx, newer))

		records, err := repo.ListByTask(ctx, subjectID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, newer.ID, records[0].ID)
		assert.Equal(t, older.ID, records[1].ID)
	})

	t.Run("delete by task clears both sides", func(t *testing.T) {
		subjectID, otherID := uuid.New(), uuid.New()
		require.NoError(t, repo.Append(ctx, comparison.NewRecord(userID, subjectID, otherID, 10)))
		require.NoError(t, repo.Append(ctx, comparison.NewRecord(userID, otherID, subjectID, 8)))

		require.NoError(t, repo.DeleteByTask(ctx, subjectID))

		records, err := repo.ListByTask(ctx, subjectID)
		require.NoError(t, err)
		assert.Empty(t, records)

		// The opponent's unrelated history would also be gone here since
		// both records involved the subject.
		records, err = repo.ListByTask(ctx, otherID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("delete all clears the user's history", func(t *testing.T) {
		otherUser := uuid.New()
		createTestUser(t, db, otherUser)

		mine := comparison.NewRecord(userID, uuid.New(), uuid.New(), 5)
		theirs := comparison.NewRecord(otherUser, uuid.New(), uuid.New(), 5)
		require.NoError(t, repo.Append(ctx, mine))
		require.NoError(t, repo.Append(ctx, theirs))

		require.NoError(t, repo.DeleteAll(ctx, userID))

		gone, err := repo.ListByTask(ctx, mine.WinnerTaskID)
		require.NoError(t, err)
		assert.Empty(t, gone)

		kept, err := repo.ListByTask(ctx, theirs.WinnerTaskID)
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})
}
