package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RetentionWorker periodically purges analytics events past the retention age.
type RetentionWorker struct {
	analytics *AnalyticsService
	days      int
	interval  time.Duration
	stopCh    chan struct{}
}

// NewRetentionWorker creates a worker that ticks every interval.
func NewRetentionWorker(analytics *AnalyticsService, days int, interval time.Duration) *RetentionWorker {
	return &RetentionWorker{
		analytics: analytics,
		days:      days,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start runs one purge immediately, then one every interval until ctx is
// cancelled or Stop is called.
func (w *RetentionWorker) Start(ctx context.Context) {
	log.Info().Str("component", "retention").Dur("interval", w.interval).Int("days", w.days).Msg("retention worker starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Str("component", "retention").Msg("retention worker stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Str("component", "retention").Msg("retention worker stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *RetentionWorker) Stop() {
	close(w.stopCh)
}

func (w *RetentionWorker) tick(ctx context.Context) {
	start := time.Now()

	n, err := w.analytics.PurgeOlderThan(ctx, w.days)
	if err != nil {
		log.Error().Err(err).Str("component", "retention").Msg("purge failed")
		return
	}
	retentionPurged.Add(float64(n))
	log.Debug().Str("component", "retention").Int64("removed", n).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).Msg("tick complete")
}
