package ports

import (
	"context"
	"time"
)

type LockStore interface {
	// SetIfAbsent stores value under key only when the key does not exist yet.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}
