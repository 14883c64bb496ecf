package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisLockStore struct {
	client redis.Cmdable
}

func NewRedisLockStore(client redis.Cmdable) *RedisLockStore {
	return &RedisLockStore{client: client}
}

func (s *RedisLockStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

func (s *RedisLockStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
