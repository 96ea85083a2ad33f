package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
	"github.com/mathieu-neron/cineflix-go/internal/repository/memrepo"
)

var baseTime = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newCatalog(t *testing.T) (*CatalogService, *memrepo.Videos, *clock) {
	t.Helper()
	store := memrepo.NewVideos()
	clk := &clock{t: baseTime}
	svc := NewCatalogService(store)
	svc.now = clk.Now
	return svc, store, clk
}

func video(id, title string, cat model.Category) *model.Video {
	return &model.Video{VideoID: id, Title: title, Category: cat, Database: -1001}
}

func TestCatalog_AddStampsLifecycleFields(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	v := video("vid_aaaa0001", "Inception", model.CategoryMovie)
	v.Views = 99
	v.Status = model.StatusDeleted
	require.NoError(t, svc.Add(ctx, v))

	got, err := svc.Get(ctx, "vid_aaaa0001")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Zero(t, got.Views)
	assert.Zero(t, got.Downloads)
	assert.Equal(t, baseTime, got.AddedAt)
	assert.Equal(t, baseTime, got.LastUpdated)
	assert.Nil(t, got.DeletedAt)
}

func TestCatalog_AddDuplicateID(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, video("vid_dup", "First", model.CategoryMovie)))
	err := svc.Add(ctx, video("vid_dup", "Second", model.CategorySeries))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	got, err := svc.Get(ctx, "vid_dup")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
}

func withEpisode(v *model.Video, season, episode int) *model.Video {
	v.Season = &season
	v.Episode = &episode
	return v
}

func TestCatalog_AddValidation(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name string
		v    *model.Video
	}{
		{"missing id", video("", "Title", model.CategoryMovie)},
		{"missing title", video("vid_x", "", model.CategoryMovie)},
		{"bad category", video("vid_x", "Title", model.Category("cartoon"))},
		{"zero season", withEpisode(video("vid_x", "Title", model.CategorySeries), 0, 1)},
		{"zero episode", withEpisode(video("vid_x", "Title", model.CategorySeries), 1, 0)},
		{"negative season", withEpisode(video("vid_x", "Title", model.CategorySeries), -1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Add(ctx, tt.v), repository.ErrValidation)
		})
	}
}

func TestCatalog_AddStoreUnavailable(t *testing.T) {
	svc, store, _ := newCatalog(t)
	store.Fail(memrepo.Unavailable)

	err := svc.Add(context.Background(), video("vid_x", "Title", model.CategoryMovie))
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestCatalog_SoftDeleteHidesRecord(t *testing.T) {
	svc, store, clk := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, video("vid_gone", "Old", model.CategoryMovie)))
	clk.Advance(time.Hour)

	ok, err := svc.SoftDelete(ctx, "vid_gone")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Get(ctx, "vid_gone")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	raw, exists := store.Raw("vid_gone")
	require.True(t, exists, "soft delete must keep the record")
	assert.Equal(t, model.StatusDeleted, raw.Status)
	require.NotNil(t, raw.DeletedAt)
	assert.Equal(t, baseTime.Add(time.Hour), *raw.DeletedAt)

	clk.Advance(time.Hour)
	ok, err = svc.SoftDelete(ctx, "vid_gone")
	require.NoError(t, err)
	assert.False(t, ok, "second delete is a no-op")
	raw, _ = store.Raw("vid_gone")
	assert.Equal(t, baseTime.Add(time.Hour), *raw.DeletedAt)

	ok, err = svc.SoftDelete(ctx, "vid_never")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_GetMissing(t *testing.T) {
	svc, _, _ := newCatalog(t)
	_, err := svc.Get(context.Background(), "vid_none")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCatalog_ListNewestFirstByCategory(t *testing.T) {
	svc, _, clk := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, video("vid_m1", "Movie one", model.CategoryMovie)))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Add(ctx, video("vid_s1", "Show S01E01", model.CategorySeries)))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Add(ctx, video("vid_m2", "Movie two", model.CategoryMovie)))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Add(ctx, video("vid_m3", "Movie three", model.CategoryMovie)))
	_, err := svc.SoftDelete(ctx, "vid_m3")
	require.NoError(t, err)

	movies, err := svc.List(ctx, model.CategoryMovie, 0)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "vid_m2", movies[0].VideoID)
	assert.Equal(t, "vid_m1", movies[1].VideoID)

	all, err := svc.List(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "vid_m2", all[0].VideoID)
	assert.Equal(t, "vid_s1", all[1].VideoID)

	_, err = svc.List(ctx, model.Category("cartoon"), 10)
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestCatalog_Update(t *testing.T) {
	svc, _, clk := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, video("vid_up", "Before", model.CategoryMovie)))
	clk.Advance(time.Minute)

	title := "After"
	season := 2
	ok, err := svc.Update(ctx, "vid_up", model.VideoUpdate{Title: &title, Season: &season})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.Get(ctx, "vid_up")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	require.NotNil(t, got.Season)
	assert.Equal(t, 2, *got.Season)
	assert.Equal(t, model.CategoryMovie, got.Category, "unset fields are untouched")
	assert.Equal(t, baseTime, got.AddedAt)
	assert.Equal(t, baseTime.Add(time.Minute), got.LastUpdated)

	ok, err = svc.Update(ctx, "vid_none", model.VideoUpdate{Title: &title})
	require.NoError(t, err)
	assert.False(t, ok)

	bad := model.Category("cartoon")
	_, err = svc.Update(ctx, "vid_up", model.VideoUpdate{Category: &bad})
	assert.ErrorIs(t, err, repository.ErrValidation)

	for _, n := range []int{0, -3} {
		_, err = svc.Update(ctx, "vid_up", model.VideoUpdate{Season: &n})
		assert.ErrorIs(t, err, repository.ErrValidation, "season %d", n)
		_, err = svc.Update(ctx, "vid_up", model.VideoUpdate{Episode: &n})
		assert.ErrorIs(t, err, repository.ErrValidation, "episode %d", n)
	}
	got, err = svc.Get(ctx, "vid_up")
	require.NoError(t, err)
	assert.Equal(t, 2, *got.Season, "rejected updates leave the record alone")
	assert.Nil(t, got.Episode)
}

func TestCatalog_StoredRecordIsNotAliased(t *testing.T) {
	svc, store, _ := newCatalog(t)
	ctx := context.Background()

	v := withEpisode(video("vid_alias", "Show", model.CategorySeries), 1, 4)
	require.NoError(t, svc.Add(ctx, v))
	*v.Season = 9

	got, err := svc.Get(ctx, "vid_alias")
	require.NoError(t, err)
	assert.Equal(t, 1, *got.Season)
	*got.Episode = 7

	raw, ok := store.Raw("vid_alias")
	require.True(t, ok)
	assert.Equal(t, 1, *raw.Season)
	assert.Equal(t, 4, *raw.Episode)
}

func TestCatalog_IncrementCounters(t *testing.T) {
	svc, store, _ := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, video("vid_cnt", "Counted", model.CategoryMovie)))
	svc.IncrementView(ctx, "vid_cnt")
	svc.IncrementView(ctx, "vid_cnt")
	svc.IncrementDownload(ctx, "vid_cnt")

	got, err := svc.Get(ctx, "vid_cnt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
	assert.Equal(t, int64(1), got.Downloads)

	// Failures are swallowed.
	store.Fail(memrepo.Unavailable)
	assert.NotPanics(t, func() { svc.IncrementView(ctx, "vid_cnt") })
	store.Fail(nil)

	got, err = svc.Get(ctx, "vid_cnt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestCatalog_SearchIsLiteralAndCapped(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, video("vid_a", "The Matrix (1999)", model.CategoryMovie)))
	require.NoError(t, svc.Add(ctx, video("vid_b", "matrix reloaded", model.CategoryMovie)))
	require.NoError(t, svc.Add(ctx, video("vid_c", "Heat", model.CategoryMovie)))
	require.NoError(t, svc.Add(ctx, video("vid_d", "Matrix deleted", model.CategoryMovie)))
	_, err := svc.SoftDelete(ctx, "vid_d")
	require.NoError(t, err)

	got, err := svc.Search(ctx, "MATRIX")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "vid_a", got[0].VideoID)
	assert.Equal(t, "vid_b", got[1].VideoID)

	got, err = svc.Search(ctx, "(1999)")
	require.NoError(t, err)
	require.Len(t, got, 1, "metacharacters match literally")
	assert.Equal(t, "vid_a", got[0].VideoID)

	got, err = svc.Search(ctx, ".*")
	require.NoError(t, err)
	assert.Empty(t, got)

	for i := 0; i < 25; i++ {
		id := "vid_bulk" + string(rune('a'+i))
		require.NoError(t, svc.Add(ctx, video(id, "bulk title", model.CategoryMovie)))
	}
	got, err = svc.Search(ctx, "bulk")
	require.NoError(t, err)
	assert.Len(t, got, SearchLimit)
}

func TestCatalog_ErrorsAreTyped(t *testing.T) {
	svc, store, _ := newCatalog(t)
	store.Fail(memrepo.Unavailable)

	_, err := svc.List(context.Background(), "", 10)
	assert.True(t, errors.Is(err, repository.ErrStoreUnavailable))
}
