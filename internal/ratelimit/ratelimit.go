// Package ratelimit implements per-key sliding-window admission control.
// Limiters fail open: an internal error always admits the request.
package ratelimit

import (
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Defaults match the bot's per-user budget.
const (
	DefaultMax     = 20
	DefaultWindow  = 60 * time.Second
	DefaultMaxKeys = 100_000
)

var (
	deniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cineflix_ratelimit_denied_total",
		Help: "Requests denied by the rate limiter, by backend.",
	}, []string{"backend"})
	failOpenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cineflix_ratelimit_fail_open_total",
		Help: "Requests admitted because the limiter hit an internal error, by backend.",
	}, []string{"backend"})
)

// Limiter decides whether one more request for key fits in its budget.
type Limiter interface {
	Allow(key string) bool
}

// Config defines the budget: at most Max requests per trailing Window.
type Config struct {
	Max    int
	Window time.Duration
	// MaxKeys bounds the number of tracked keys; 0 means unbounded.
	MaxKeys int
}

func (c Config) withDefaults() Config {
	if c.Max <= 0 {
		c.Max = DefaultMax
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxKeys < 0 {
		c.MaxKeys = 0
	}
	return c
}

// UserKey is the limiter key for a platform user id.
func UserKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// SlidingWindow is an in-process limiter. Each key holds the timestamps of its
// admitted requests, never more than Max of them. Keys are kept in an
// expiring LRU whose TTL equals the window, so a key with no admitted request
// for a full window is evicted with nothing of value lost.
//
// State is per process: separate processes get separate budgets.
type SlidingWindow struct {
	mu     sync.Mutex
	hits   *expirable.LRU[string, []time.Time]
	config Config
	now    func() time.Time
}

// NewSlidingWindow creates an in-memory limiter. Zero fields take defaults.
func NewSlidingWindow(cfg Config) *SlidingWindow {
	cfg = cfg.withDefaults()
	return &SlidingWindow{
		hits:   expirable.NewLRU[string, []time.Time](cfg.MaxKeys, nil, cfg.Window),
		config: cfg,
		now:    time.Now,
	}
}

// Allow prunes the key's timestamps to the trailing window, denies without
// recording when the budget is used up, and otherwise records now.
func (l *SlidingWindow) Allow(key string) (allowed bool) {
	defer func() {
		if r := recover(); r != nil {
			failOpenTotal.WithLabelValues("memory").Inc()
			log.Error().Interface("panic", r).Str("component", "ratelimit").Msg("limiter failed, allowing request")
			allowed = true
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	stamps, _ := l.hits.Get(key)

	kept := make([]time.Time, 0, len(stamps)+1)
	for _, ts := range stamps {
		if now.Sub(ts) < l.config.Window {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.config.Max {
		deniedTotal.WithLabelValues("memory").Inc()
		return false
	}

	l.hits.Add(key, append(kept, now))
	return true
}

// IsAllowed is Allow keyed by platform user id.
func (l *SlidingWindow) IsAllowed(userID int64) bool {
	return l.Allow(UserKey(userID))
}

// Len returns the number of keys currently tracked.
func (l *SlidingWindow) Len() int {
	return l.hits.Len()
}

// Config returns the effective configuration.
func (l *SlidingWindow) Config() Config {
	return l.config
}
