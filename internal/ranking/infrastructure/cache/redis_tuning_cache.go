// Package cache provides a Redis read-through cache for ranking tuning.
// Tuning is loaded on every engine invocation, so caching it keeps hot
// paths off the database when a shared Redis is available.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/nextup/internal/ranking/domain/tuning"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness when another process writes tuning
// without going through this cache.
const DefaultTTL = 5 * time.Minute

// RedisTuningCache wraps a tuning.Repository with a Redis cache.
// Cache failures fall through to the inner repository; Redis being down
// never breaks the engine.
type RedisTuningCache struct {
	inner  tuning.Repository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisTuningCache creates a caching wrapper around inner.
func NewRedisTuningCache(inner tuning.Repository, client *redis.Client, logger *slog.Logger) *RedisTuningCache {
	return &RedisTuningCache{
		inner:  inner,
		client: client,
		ttl:    DefaultTTL,
		logger: logger,
	}
}

func (c *RedisTuningCache) key(userID uuid.UUID) string {
	return fmt.Sprintf("nextup:tuning:%s", userID)
}

// Load returns the cached tuning, falling back to the inner repository
// and populating the cache on a miss.
func (c *RedisTuningCache) Load(ctx context.Context, userID uuid.UUID) (tuning.Tuning, error) {
	payload, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == nil {
		var t tuning.Tuning
		if err := json.Unmarshal(payload, &t); err == nil {
			return t, nil
		}
		// Corrupt entry, fall through and rewrite it.
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "tuning cache read failed", slog.String("error", err.Error()))
	}

	t, err := c.inner.Load(ctx, userID)
	if err != nil {
		return tuning.Tuning{}, err
	}

	c.store(ctx, userID, t)
	return t, nil
}

// Save writes through to the inner repository and refreshes the cache.
func (c *RedisTuningCache) Save(ctx context.Context, userID uuid.UUID, t tuning.Tuning) error {
	if err := c.inner.Save(ctx, userID, t); err != nil {
		return err
	}
	c.store(ctx, userID, t)
	return nil
}

func (c *RedisTuningCache) store(ctx context.Context, userID uuid.UUID, t tuning.Tuning) {
	payload, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "tuning cache write failed", slog.String("error", err.Error()))
	}
}
