// AngelaMos | 2026
// cache.go

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codeburry/api/internal/metrics"
)

// LeaderboardCache keeps the rendered top list in Redis. Every fault is
// treated as a miss so the store stays the source of truth.
type LeaderboardCache struct {
	rdb     *redis.Client
	key     string
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewLeaderboardCache(
	rdb *redis.Client,
	key string,
	ttl time.Duration,
	m *metrics.Metrics,
) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, key: key, ttl: ttl, metrics: m}
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]LeaderboardEntry, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "leaderboard cache read failed", "error", err)
		}
		c.observe("miss")
		return nil, false
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.WarnContext(ctx, "leaderboard cache entry corrupt", "error", err)
		c.observe("miss")
		return nil, false
	}

	c.observe("hit")
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []LeaderboardEntry) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "leaderboard cache write failed", "error", err)
	}
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}

	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		slog.WarnContext(ctx, "leaderboard cache invalidate failed", "error", err)
	}
}

func (c *LeaderboardCache) observe(result string) {
	if c.metrics != nil {
		c.metrics.LeaderboardLookup.WithLabelValues(result).Inc()
	}
}
