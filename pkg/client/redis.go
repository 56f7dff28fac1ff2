package client

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"reservio/pkg/logger"
)

// SetRedis connects the shared Redis client. Redis only backs the
// resource lookup cache, so a failed connection degrades to uncached
// reads instead of aborting startup.
func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, resource cache disabled", "addr", addr, "error", err)
		_ = rdb.Close()
		return
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	c.Redis = rdb
	c.log = log
}
