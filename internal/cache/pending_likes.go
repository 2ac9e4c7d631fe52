package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// PendingLikesCache caches per-user pending like counts.
type PendingLikesCache interface {
	// Load returns the cached count, or calls load and caches its result.
	Load(ctx context.Context, userID string, load func(context.Context) (int, error)) (int, error)
	Invalidate(ctx context.Context, userIDs ...string) error
}

// New returns a Redis-backed cache, or a noop cache when redisURL is empty or unreachable.
func New(ctx context.Context, redisURL string, ttl time.Duration) PendingLikesCache {
	if redisURL == "" {
		logrus.Info("redis disabled, pending likes are not cached")
		return NoopCache{}
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logrus.WithError(err).Warn("invalid redis url, pending likes are not cached")
		return NoopCache{}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("redis unreachable, pending likes are not cached")
		_ = client.Close()
		return NoopCache{}
	}
	logrus.WithField("addr", opts.Addr).Info("redis connected")
	return NewRedisCache(client, ttl)
}

// RedisCache stores counts under pending_likes:<user id>. Every Invalidate bumps
// pending_likes:ver:<user id>, and Load WATCHes that key so a count read before
// an invalidation is never written back.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// versions outlive any in-flight load by a wide margin.
const versionTTL = 24 * time.Hour

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(userID string) string {
	return "pending_likes:" + userID
}

func versionKey(userID string) string {
	return "pending_likes:ver:" + userID
}

func (c *RedisCache) get(ctx context.Context, userID string) (int, bool, error) {
	val, err := c.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("decode cached count: %w", err)
	}
	return n, true, nil
}

// Load serves a hit from Redis. On a miss it runs load under WATCH and stores
// the result only if no Invalidate for userID landed in between. Redis errors
// never fail the call; the loaded count is returned uncached.
func (c *RedisCache) Load(ctx context.Context, userID string, load func(context.Context) (int, error)) (int, error) {
	count, ok, err := c.get(ctx, userID)
	if err == nil && ok {
		return count, nil
	}
	if err != nil {
		logrus.WithError(err).Warn("pending likes cache read failed")
	}

	var (
		loaded  bool
		loadErr error
	)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		count, loadErr = load(ctx)
		if loadErr != nil {
			return loadErr
		}
		loaded = true
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(userID), count, c.ttl)
			return nil
		})
		return err
	}, versionKey(userID))

	switch {
	case loadErr != nil:
		return 0, loadErr
	case !loaded:
		// WATCH itself failed, so load never ran
		logrus.WithError(err).Warn("pending likes cache unavailable")
		return load(ctx)
	case errors.Is(err, redis.TxFailedErr):
		logrus.WithField("user_id", userID).Debug("pending likes invalidated during load, not cached")
	case err != nil:
		logrus.WithError(err).Warn("pending likes cache write failed")
	}
	return count, nil
}

// Invalidate drops cached counts and bumps their versions in one transaction.
func (c *RedisCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, key(id))
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, id := range userIDs {
			pipe.Incr(ctx, versionKey(id))
			pipe.Expire(ctx, versionKey(id), versionTTL)
		}
		return nil
	})
	return err
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Load(ctx context.Context, _ string, load func(context.Context) (int, error)) (int, error) {
	return load(ctx)
}

func (NoopCache) Invalidate(context.Context, ...string) error { return nil }
