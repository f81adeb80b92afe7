package aurige

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	verdictKeyPrefix  = "aurige:neph:"
	defaultVerdictTTL = 20 * time.Hour
)

// RedisVerdictCache stores the last applied fingerprint per NEPH code. The
// TTL is shorter than the daily export cadence so every record is applied
// in full at least once a day.
type RedisVerdictCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVerdictCache(client *redis.Client, ttl time.Duration) *RedisVerdictCache {
	if ttl <= 0 {
		ttl = defaultVerdictTTL
	}
	return &RedisVerdictCache{client: client, ttl: ttl}
}

func (c *RedisVerdictCache) Unchanged(ctx context.Context, codeNEPH, fingerprint string) (bool, error) {
	got, err := c.client.Get(ctx, verdictKeyPrefix+codeNEPH).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return got == fingerprint, nil
}

func (c *RedisVerdictCache) Remember(ctx context.Context, codeNEPH, fingerprint string) error {
	return c.client.Set(ctx, verdictKeyPrefix+codeNEPH, fingerprint, c.ttl).Err()
}
