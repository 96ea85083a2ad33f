package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
	"github.com/mathieu-neron/cineflix-go/internal/repository/memrepo"
)

type analyticsFixture struct {
	svc     *AnalyticsService
	catalog *CatalogService
	events  *memrepo.Events
	clk     *clock
}

func newAnalytics(t *testing.T) analyticsFixture {
	t.Helper()
	videos := memrepo.NewVideos()
	events := memrepo.NewEvents()
	clk := &clock{t: baseTime}

	catalog := NewCatalogService(videos)
	catalog.now = clk.Now
	svc := NewAnalyticsService(events, videos)
	svc.now = clk.Now
	return analyticsFixture{svc: svc, catalog: catalog, events: events, clk: clk}
}

func TestAnalytics_RecordAssignsIdentity(t *testing.T) {
	f := newAnalytics(t)
	ctx := context.Background()

	f.svc.Record(ctx, 1, "vid_a", "")
	f.svc.Record(ctx, 1, "vid_a", model.ActionDownload)

	events := f.events.All()
	require.Len(t, events, 2)
	assert.Equal(t, model.ActionView, events[0].Action, "action defaults to view")
	assert.Equal(t, model.ActionDownload, events[1].Action)
	assert.NotEmpty(t, events[0].EventID)
	assert.NotEqual(t, events[0].EventID, events[1].EventID)
	assert.Equal(t, baseTime, events[0].Timestamp)
}

func TestAnalytics_RecordNeverFails(t *testing.T) {
	f := newAnalytics(t)
	f.events.Fail(memrepo.Unavailable)

	assert.NotPanics(t, func() { f.svc.Record(context.Background(), 1, "vid_a", model.ActionView) })
	f.events.Fail(nil)
	assert.Zero(t, f.events.Len())
}

func TestAnalytics_PopularVideos(t *testing.T) {
	f := newAnalytics(t)
	ctx := context.Background()

	for _, id := range []string{"vid_a", "vid_b", "vid_c"} {
		require.NoError(t, f.catalog.Add(ctx, video(id, "Title "+id, model.CategoryMovie)))
	}

	// An old burst for vid_c that falls outside the window.
	for i := 0; i < 10; i++ {
		f.svc.Record(ctx, 1, "vid_c", model.ActionView)
	}
	f.clk.Advance(8 * 24 * time.Hour)

	for i := 0; i < 3; i++ {
		f.svc.Record(ctx, int64(i), "vid_a", model.ActionView)
	}
	f.svc.Record(ctx, 1, "vid_b", model.ActionView)
	f.svc.Record(ctx, 1, "vid_b", model.ActionDownload)
	f.svc.Record(ctx, 1, "vid_c", model.ActionView)
	f.svc.Record(ctx, 1, "vid_c", model.ActionView)

	popular, err := f.svc.PopularVideos(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, "vid_a", popular[0].VideoID)
	assert.Equal(t, int64(3), popular[0].RequestCount)
	assert.Equal(t, "vid_c", popular[1].VideoID)
	assert.Equal(t, int64(2), popular[1].RequestCount)
	assert.Equal(t, "vid_b", popular[2].VideoID)
	assert.Equal(t, int64(1), popular[2].RequestCount, "downloads are not counted")

	top, err := f.svc.PopularVideos(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "vid_a", top[0].VideoID)
}

func TestAnalytics_PopularVideosDropsDeleted(t *testing.T) {
	f := newAnalytics(t)
	ctx := context.Background()

	require.NoError(t, f.catalog.Add(ctx, video("vid_live", "Live", model.CategoryMovie)))
	require.NoError(t, f.catalog.Add(ctx, video("vid_dead", "Dead", model.CategoryMovie)))

	for i := 0; i < 5; i++ {
		f.svc.Record(ctx, 1, "vid_dead", model.ActionView)
	}
	f.svc.Record(ctx, 1, "vid_live", model.ActionView)
	f.svc.Record(ctx, 1, "vid_unknown", model.ActionView)

	_, err := f.catalog.SoftDelete(ctx, "vid_dead")
	require.NoError(t, err)

	popular, err := f.svc.PopularVideos(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "vid_live", popular[0].VideoID)
}

func TestAnalytics_PopularVideosStoreError(t *testing.T) {
	f := newAnalytics(t)
	f.events.Fail(memrepo.Unavailable)

	_, err := f.svc.PopularVideos(context.Background(), 7, 10)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestAnalytics_PurgeOlderThan(t *testing.T) {
	f := newAnalytics(t)
	ctx := context.Background()

	f.svc.Record(ctx, 1, "vid_a", model.ActionView)
	f.svc.Record(ctx, 1, "vid_a", model.ActionView)
	f.clk.Advance(40 * 24 * time.Hour)
	f.svc.Record(ctx, 1, "vid_a", model.ActionView)

	n, err := f.svc.PurgeOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 1, f.events.Len())

	n, err = f.svc.PurgeOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.PurgeOlderThan(ctx, -1)
	assert.ErrorIs(t, err, repository.ErrValidation)
}
