package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidhyman/green-lane-json/internal/ports"
)

const (
	// Entries are addressed by week bucket, so the TTL only needs to
	// outlive the epoch; two weeks leaves slack for clock skew.
	redisTTL = 14 * 24 * time.Hour

	valueEmpty = 0x00
	valueData  = 0x01
)

// RedisCache stores encoded tiles under grm:<week bucket>:<key>. The first
// value byte tags the entry: a data tile or an upstream-404 marker.
type RedisCache struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		now:    time.Now,
	}
}

func (c *RedisCache) redisKey(key string) string {
	return fmt.Sprintf("grm:%s:%s", weekBucket(c.now()), sanitizeKey(key))
}

func (c *RedisCache) Get(ctx context.Context, key string) (ports.EncodedTile, bool, error) {
	value, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.EncodedTile{}, false, nil
	}
	if err != nil {
		return ports.EncodedTile{}, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	if len(value) == 0 {
		return ports.EncodedTile{}, false, fmt.Errorf("redis get %q: empty value", key)
	}
	switch value[0] {
	case valueEmpty:
		return ports.EncodedTile{NotFound: true}, true, nil
	case valueData:
		return ports.EncodedTile{Data: value[1:]}, true, nil
	default:
		return ports.EncodedTile{}, false, fmt.Errorf("redis get %q: unknown value tag %#x", key, value[0])
	}
}

func (c *RedisCache) Put(ctx context.Context, key string, tile ports.EncodedTile) error {
	value := []byte{valueEmpty}
	if !tile.NotFound {
		value = append([]byte{valueData}, tile.Data...)
	}

	if err := c.client.Set(ctx, c.redisKey(key), value, redisTTL).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Close releases the client's connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
