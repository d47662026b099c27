package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values. A corrupt or expired entry reads as a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const keyPrefix = "talentscope:"

// Key builds a namespaced cache key from parts.
func Key(parts ...string) string {
	k := keyPrefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}
