package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr        string
	DB          int
	DialTimeout time.Duration // 5s when zero
}

// OpenRedis connects and pings; the client is closed again when the ping fails.
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	r := redis.NewClient(&redis.Options{Addr: o.Addr, DB: o.DB, DialTimeout: o.DialTimeout})
	ctx, cancel := context.WithTimeout(ctx, o.DialTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
