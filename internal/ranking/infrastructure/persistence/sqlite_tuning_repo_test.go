package persistence

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTuningRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteTuningRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	createTestUser(t, db, userID)

	t.Run("load without a row returns the defaults", func(t *testing.T) {
		cfg, err := repo.Load(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, tuning.Default(), cfg)
	})

	t.Run("save and load round-trips", func(t *testing.T) {
		cfg := tuning.Default()
		cfg.KFactorNew = 40
		cfg.TieEpsilon = 0.02
		cfg.InitialSpread = 150

		require.NoError(t, repo.Save(ctx, userID, cfg))

		loaded, err := repo.Load(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("save overwrites the previous tuning", func(t *testing.T) {
		first := tuning.Default()
		first.NewTaskThreshold = 5
		require.NoError(t, repo.Save(ctx, userID, first))

		second := tuning.Default()
		second.NewTaskThreshold = 20
		require.NoError(t, repo.Save(ctx, userID, second))

		loaded, err := repo.Load(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 20, loaded.NewTaskThreshold)
	})

	t.Run("invalid tuning is rejected", func(t *testing.T) {
		cfg := tuning.Default()
		cfg.TieEpsilon = 0

		err := repo.Save(ctx, userID, cfg)
		assert.ErrorIs(t, err, tuning.ErrInvalidEpsilon)
	})
}
