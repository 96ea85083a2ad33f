package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
	"github.com/mathieu-neron/cineflix-go/internal/repository/memrepo"
)

func newUsers(t *testing.T) (*UserService, *memrepo.Users, *clock) {
	t.Helper()
	store := memrepo.NewUsers()
	clk := &clock{t: baseTime}
	svc := NewUserService(store)
	svc.now = clk.Now
	return svc, store, clk
}

func TestUsers_UpsertOnContactCreatesOnce(t *testing.T) {
	svc, store, clk := newUsers(t)
	ctx := context.Background()

	res, err := svc.UpsertOnContact(ctx, 42, model.Profile{Username: "neo", FirstName: "Thomas"})
	require.NoError(t, err)
	assert.Equal(t, model.ContactCreated, res)

	clk.Advance(time.Hour)
	res, err = svc.UpsertOnContact(ctx, 42, model.Profile{Username: "changed"})
	require.NoError(t, err)
	assert.Equal(t, model.ContactExisting, res)

	n, err := store.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	u, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "neo", u.Username, "profile is only written on creation")
	assert.Equal(t, "Thomas", u.FirstName)
	assert.Equal(t, baseTime, u.JoinedAt)
	assert.Equal(t, baseTime.Add(time.Hour), u.LastActive)
	assert.Equal(t, model.DefaultLanguage, u.Language)
	assert.False(t, u.IsBanned)
	assert.Zero(t, u.TotalVideosWatched)
}

func TestUsers_UpsertOnContactConcurrent(t *testing.T) {
	svc, store, _ := newUsers(t)
	ctx := context.Background()

	const callers = 20
	results := make([]model.ContactResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.UpsertOnContact(ctx, 7, model.Profile{})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	created := 0
	for _, r := range results {
		if r == model.ContactCreated {
			created++
		}
	}
	assert.Equal(t, 1, created)

	n, err := store.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUsers_LastActiveNeverMovesBack(t *testing.T) {
	svc, _, clk := newUsers(t)
	ctx := context.Background()

	_, err := svc.UpsertOnContact(ctx, 1, model.Profile{})
	require.NoError(t, err)

	clk.Advance(-time.Hour)
	_, err = svc.UpsertOnContact(ctx, 1, model.Profile{})
	require.NoError(t, err)

	u, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, baseTime, u.LastActive)
}

func TestUsers_BanAndUnban(t *testing.T) {
	svc, _, clk := newUsers(t)
	ctx := context.Background()

	_, err := svc.UpsertOnContact(ctx, 1, model.Profile{})
	require.NoError(t, err)
	_, err = svc.UpsertOnContact(ctx, 2, model.Profile{})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	ok, err := svc.SetBanned(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, ok)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(2), active[0].UserID)

	ok, err = svc.SetBanned(ctx, 1, false)
	require.NoError(t, err)
	assert.True(t, ok)

	u, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, u.IsBanned)
	require.NotNil(t, u.BannedAt, "unban keeps banned_at")
	assert.Equal(t, baseTime.Add(time.Minute), *u.BannedAt)

	ok, err = svc.SetBanned(ctx, 999, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsers_RecordActivity(t *testing.T) {
	svc, _, clk := newUsers(t)
	ctx := context.Background()

	_, err := svc.UpsertOnContact(ctx, 5, model.Profile{})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	require.NoError(t, svc.RecordActivity(ctx, 5))
	require.NoError(t, svc.RecordActivity(ctx, 5))

	u, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.TotalVideosWatched)
	assert.Equal(t, baseTime.Add(time.Minute), u.LastActive)

	assert.ErrorIs(t, svc.RecordActivity(ctx, 404), repository.ErrNotFound)
}

func TestUsers_StoreUnavailable(t *testing.T) {
	svc, store, _ := newUsers(t)
	store.Fail(memrepo.Unavailable)

	_, err := svc.UpsertOnContact(context.Background(), 1, model.Profile{})
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
}
