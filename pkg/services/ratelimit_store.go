// pkg/services/ratelimit_store.go
package service

import (
	"context"
	"fmt"
	"time"

	"agents-registry/config"
	"agents-registry/pkg/store"
	"agents-registry/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// SQLiteWindowStore keeps rate windows as rows in the catalog database.
// This is the default backend: one durable store, no extra infrastructure.
type SQLiteWindowStore struct {
	store *store.Store
}

func NewSQLiteWindowStore(s *store.Store) *SQLiteWindowStore {
	return &SQLiteWindowStore{store: s}
}

func (s *SQLiteWindowStore) Bump(ctx context.Context, identifier, endpoint string, windowStart time.Time, _ time.Duration) (uint32, error) {
	return s.store.UpsertRateWindow(ctx, identifier, endpoint, windowStart)
}

func (s *SQLiteWindowStore) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.store.DeleteRateWindowsBefore(ctx, cutoff)
}

// RedisWindowStore keeps rate windows as Redis counters. INCR is atomic and
// the key carries the window start, so both backends share the same
// fixed-window semantics.
type RedisWindowStore struct {
	client *redis.Client
}

func NewRedisWindowStore(cfg *config.RateLimitConfig, log *utils.Logger) *RedisWindowStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.WithField("addr", cfg.Redis.Addr).Info("Redis rate window store initialized")
	return &RedisWindowStore{client: client}
}

func (s *RedisWindowStore) Bump(ctx context.Context, identifier, endpoint string, windowStart time.Time, window time.Duration) (uint32, error) {
	key := windowKey(identifier, endpoint, windowStart)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump redis window: %w", err)
	}
	if count == 1 {
		// First request in the window owns the expiry, two window lengths
		// like the row-based sweeper
		if err := s.client.Expire(ctx, key, 2*window).Err(); err != nil {
			return 0, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}
	return uint32(count), nil
}

// Sweep is a no-op for Redis: key TTLs already enforce the
// two-window retention rule.
func (s *RedisWindowStore) Sweep(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// Close releases the Redis connection pool.
func (s *RedisWindowStore) Close() error {
	return s.client.Close()
}

func windowKey(identifier, endpoint string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", endpoint, identifier, windowStart.Unix())
}
