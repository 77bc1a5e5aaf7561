package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	availableKeyPrefix = "oms:available:"
	requestKeyPrefix   = "oms:request:"
	requestKeyTTL      = 24 * time.Hour
)

// RedisAdapter mirrors available stock into Redis so the HTTP surface
// can answer availability reads without hitting MySQL, and dedupes
// order submissions by request id. Repositories stay the source of
// truth; the application refreshes the mirror after every inventory
// mutation.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetAvailable(ctx context.Context, productID string, available int) error {
	key := availableKeyPrefix + productID
	if err := r.client.Set(ctx, key, available, 0).Err(); err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	return nil
}

func (r *RedisAdapter) GetAvailable(ctx context.Context, productID string) (int, bool, error) {
	key := availableKeyPrefix + productID
	available, err := r.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get availability: %w", err)
	}
	return available, true, nil
}

// SetIdempotency records a request key, returning false if it was
// already seen within the TTL window.
func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, requestKeyPrefix+key, 1, requestKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return ok, nil
}
