package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "ratelimit:"

// slidingWindowScript prunes, counts and records in one round trip so that
// concurrent processes sharing the key cannot overshoot the budget.
//
// KEYS[1] key, ARGV[1] now (ms), ARGV[2] window (ms), ARGV[3] max, ARGV[4] member.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= max then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisLimiter shares one sliding-window budget per key across every process
// connected to the same Redis. Keys expire with their window.
type RedisLimiter struct {
	rdb     *redis.Client
	config  Config
	timeout time.Duration
	now     func() time.Time
}

// NewRedisLimiter creates a limiter backed by rdb.
func NewRedisLimiter(rdb *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		rdb:     rdb,
		config:  cfg.withDefaults(),
		timeout: 500 * time.Millisecond,
		now:     time.Now,
	}
}

// Allow runs the sliding-window script. Any Redis error admits the request.
func (l *RedisLimiter) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	res, err := slidingWindowScript.Run(ctx, l.rdb, []string{redisKeyPrefix + key},
		l.now().UnixMilli(),
		l.config.Window.Milliseconds(),
		l.config.Max,
		uuid.NewString(),
	).Int()
	if err != nil {
		failOpenTotal.WithLabelValues("redis").Inc()
		log.Warn().Err(err).Str("component", "ratelimit").Msg("redis limiter unavailable, allowing request")
		return true
	}
	if res == 0 {
		deniedTotal.WithLabelValues("redis").Inc()
		return false
	}
	return true
}

// IsAllowed is Allow keyed by platform user id.
func (l *RedisLimiter) IsAllowed(userID int64) bool {
	return l.Allow(UserKey(userID))
}
