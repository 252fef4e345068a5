package idempotency

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const Header = "Idempotency-Key"

func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// Guard dedupes retried order submissions: the first response for a key is
// remembered for a TTL and replayed as-is, so a kiosk retry never fulfills
// the same cart twice.
type Guard interface {
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Remember(ctx context.Context, key string, response []byte) error
}

type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisGuard) Lookup(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := g.rdb.Get(ctx, g.name(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (g *RedisGuard) Remember(ctx context.Context, key string, response []byte) error {
	return g.rdb.Set(ctx, g.name(key), response, g.ttl).Err()
}

func (g *RedisGuard) name(key string) string { return "pos:idem:" + key }
