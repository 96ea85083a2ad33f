package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis connects to Redis. An empty URL, a bad URL or a failed ping all
// return nil, and callers fall back to process-local state.
func NewRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, shared rate limiting disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, shared rate limiting disabled")
		return nil
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, shared rate limiting disabled")
		_ = rdb.Close()
		return nil
	}

	log.Info().Msg("redis: connected, shared rate limiting enabled")
	return rdb
}
