package webhook

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers event ids. Seen reports whether id was already marked.
type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
}

type RedisDeduper struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisDeduper(rdb *redis.Client, prefix string, ttl time.Duration) *RedisDeduper {
	if prefix == "" {
		prefix = "omni:event:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (d *RedisDeduper) Seen(ctx context.Context, id string) (bool, error) {
	fresh, err := d.rdb.SetNX(ctx, d.prefix+id, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}
