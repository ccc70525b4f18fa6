package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const limiterKeyPrefix = "skillswap:connlimit:"

// ConnectLimiter caps how many websocket handshakes one user may make
// per window. The counter is a plain INCR with an expiry set on the
// first hit of each window.
type ConnectLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewConnectLimiter(rdb *redis.Client, limit int, window time.Duration) *ConnectLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &ConnectLimiter{rdb: rdb, limit: int64(limit), window: window}
}

// Allow counts the attempt and reports whether it fits the window.
// The caller treats a returned error as fail-open.
func (l *ConnectLimiter) Allow(ctx context.Context, user string) (bool, error) {
	key := limiterKeyPrefix + user
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= l.limit, nil
}
