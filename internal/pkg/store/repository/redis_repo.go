package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"leadconversion/internal/service/interfaces"
)

// RedisStoreAdapter narrows a go-redis client to the key operations the
// conversion lock needs.
type RedisStoreAdapter struct {
	cmd redis.Cmdable
}

var _ interfaces.RedisStoreOperations = (*RedisStoreAdapter)(nil)

func NewRedisStoreAdapter(cmd redis.Cmdable) *RedisStoreAdapter {
	return &RedisStoreAdapter{cmd: cmd}
}

func (a *RedisStoreAdapter) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return a.cmd.SetNX(ctx, key, value, expiration).Result()
}

func (a *RedisStoreAdapter) Delete(ctx context.Context, key string) error {
	return a.cmd.Del(ctx, key).Err()
}

func (a *RedisStoreAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.cmd.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// TTL is zero for a missing key and for a key without expiry.
func (a *RedisStoreAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := a.cmd.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
