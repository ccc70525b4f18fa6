// Package storage holds the redis-backed runtime state that is not
// worth a database row: connection presence and the connect rate
// limit window.
package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"skillswap/tools/errs"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Dial connects and pings so a bad address fails at startup instead
// of on the first request.
func Dial(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errs.ErrTransient.WrapMsg("redis ping", err)
	}
	return rdb, nil
}
