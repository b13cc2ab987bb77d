package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ViewCache stores JSON snapshots of a read model type T. It never reports
// errors to callers: an unreachable or corrupt cache behaves like an empty
// one, and the caller falls through to its store.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewViewCache binds a cache to client. ttl of 0 keeps entries until they
// are deleted.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get returns (nil, false) on a miss, a Redis error or an undecodable entry.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		log.Ctx(ctx).Debug().Str("key", key).Msg("view cache miss")
		return nil, false
	case err != nil:
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("view cache read failed")
		return nil, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("view cache entry unreadable")
		return nil, false
	}
	log.Ctx(ctx).Debug().Str("key", key).Msg("view cache hit")
	return &v, true
}

func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("view cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("view cache write failed")
	}
}

// Delete drops keys. Missing keys are not an error.
func (c *ViewCache[T]) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Strs("keys", keys).Msg("view cache delete failed")
	}
}
