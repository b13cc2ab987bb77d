package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultConnectTimeout = 5 * time.Second

// Options mirrors the REDIS_* settings.
type Options struct {
	Addr     string
	Password string
	DB       int
	// ConnectTimeout bounds dialing and the startup ping. Zero means 5s.
	ConnectTimeout time.Duration
}

// Client is the connection shared by the card view cache and the card event
// publisher.
type Client struct {
	*redis.Client
}

// Connect dials Redis and pings it once, so a wrong REDIS_ADDR fails at
// startup rather than degrading every request to a cache miss.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("connected to redis")
	return &Client{Client: rdb}, nil
}
