package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"skillswap/tools/errs"
)

const (
	presenceKeyPrefix = "skillswap:presence:"
	presenceTTL       = 5 * time.Minute
)

// Presence tracks which connection ids a user currently holds. The
// set carries a TTL refreshed on every change, so entries from a node
// that died without cleanup age out on their own.
type Presence struct {
	rdb *redis.Client
}

func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{rdb: rdb}
}

func (p *Presence) Online(ctx context.Context, user, connID string) error {
	key := presenceKeyPrefix + user
	pipe := p.rdb.TxPipeline()
	pipe.SAdd(ctx, key, connID)
	pipe.Expire(ctx, key, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.ErrTransient.WrapMsg("presence online", err)
	}
	return nil
}

func (p *Presence) Offline(ctx context.Context, user, connID string) error {
	if err := p.rdb.SRem(ctx, presenceKeyPrefix+user, connID).Err(); err != nil {
		return errs.ErrTransient.WrapMsg("presence offline", err)
	}
	return nil
}

// IsOnline reports whether the user holds at least one live
// connection on any node.
func (p *Presence) IsOnline(ctx context.Context, user string) (bool, error) {
	n, err := p.rdb.SCard(ctx, presenceKeyPrefix+user).Result()
	if err != nil {
		return false, errs.ErrTransient.WrapMsg("presence lookup", err)
	}
	return n > 0, nil
}
