package querycache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "hrhub:query:"
	scanBatch      = 200
)

// Redis is a shared cache for several portal instances. Connectivity problems behave like
// misses so the portal keeps serving from the backend.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis cache not configured")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.client == nil {
		return nil, false
	}
	res, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("query cache get failed", "key", key, "err", err)
		return nil, false
	}
	return res, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		slog.Warn("query cache set failed", "key", key, "err", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, resource string) {
	if r == nil || r.client == nil {
		return
	}
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+resourcePrefix(resource)+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			r.del(ctx, resource, batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("query cache scan failed", "resource", resource, "err", err)
	}
	if len(batch) > 0 {
		r.del(ctx, resource, batch)
	}
}

func (r *Redis) del(ctx context.Context, resource string, keys []string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("query cache invalidate failed", "resource", resource, "err", err)
	}
}
