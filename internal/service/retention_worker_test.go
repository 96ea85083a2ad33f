package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository/memrepo"
)

func TestRetentionWorker_PurgesOnStartAndStops(t *testing.T) {
	events := memrepo.NewEvents()
	clk := &clock{t: baseTime}
	analytics := NewAnalyticsService(events, memrepo.NewVideos())
	analytics.now = clk.Now

	ctx := context.Background()
	analytics.Record(ctx, 1, "vid_a", model.ActionView)
	clk.Advance(31 * 24 * time.Hour)
	analytics.Record(ctx, 1, "vid_b", model.ActionView)

	w := NewRetentionWorker(analytics, 30, time.Hour)
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return events.Len() == 1 }, time.Second, 5*time.Millisecond)

	w.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	remaining := events.All()
	require.Len(t, remaining, 1)
	assert.Equal(t, "vid_b", remaining[0].VideoID)
}

func TestRetentionWorker_StopsOnCancel(t *testing.T) {
	events := memrepo.NewEvents()
	events.Fail(memrepo.Unavailable)
	w := NewRetentionWorker(NewAnalyticsService(events, memrepo.NewVideos()), 30, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
