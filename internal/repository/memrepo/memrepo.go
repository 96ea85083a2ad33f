// Package memrepo holds in-memory implementations of the store interfaces.
// They honour the same contracts as the MongoDB repositories (unique ids,
// active-only lookups, atomic single-record mutations) and back the service
// and handler tests.
package memrepo

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

// faults lets tests make every call fail with a given error.
type faults struct {
	mu  sync.RWMutex
	err error
}

// Fail makes every subsequent call return err. Fail(nil) restores normal operation.
func (f *faults) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *faults) failure() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// Unavailable is a ready-made store outage error for Fail.
var Unavailable = fmt.Errorf("%w: simulated outage", repository.ErrStoreUnavailable)

// Videos is an in-memory catalog store.
type Videos struct {
	faults
	mu    sync.RWMutex
	order []string
	byID  map[string]*model.Video
}

func NewVideos() *Videos {
	return &Videos{byID: make(map[string]*model.Video)}
}

func (s *Videos) Insert(_ context.Context, v *model.Video) error {
	if err := s.failure(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[v.VideoID]; ok {
		return fmt.Errorf("%w: video_id %q", repository.ErrDuplicateKey, v.VideoID)
	}
	s.byID[v.VideoID] = clone(v)
	s.order = append(s.order, v.VideoID)
	return nil
}

func (s *Videos) FindActive(_ context.Context, videoID string) (*model.Video, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[videoID]
	if !ok || v.Status != model.StatusActive {
		return nil, repository.ErrNotFound
	}
	return clone(v), nil
}

// Raw returns a record regardless of status, for assertions on soft deletes.
func (s *Videos) Raw(videoID string) (model.Video, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[videoID]
	if !ok {
		return model.Video{}, false
	}
	return *clone(v), true
}

func (s *Videos) ListActive(_ context.Context, category model.Category, limit int) ([]model.Video, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	out := s.collect(func(v *model.Video) bool {
		return v.Status == model.StatusActive && (category == "" || v.Category == category)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return head(out, limit), nil
}

func (s *Videos) Update(_ context.Context, videoID string, upd model.VideoUpdate, at time.Time) (bool, error) {
	if err := s.failure(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.byID[videoID]
	if !ok {
		return false, nil
	}
	upd.Apply(v)
	v.LastUpdated = at
	return true, nil
}

func (s *Videos) SoftDelete(_ context.Context, videoID string, at time.Time) (bool, error) {
	if err := s.failure(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.byID[videoID]
	if !ok || v.Status != model.StatusActive {
		return false, nil
	}
	v.Status = model.StatusDeleted
	deletedAt := at
	v.DeletedAt = &deletedAt
	return true, nil
}

func (s *Videos) Increment(_ context.Context, videoID string, counter model.Counter) error {
	if err := s.failure(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.byID[videoID]
	if !ok {
		return nil
	}
	switch counter {
	case model.CounterViews:
		v.Views++
	case model.CounterDownloads:
		v.Downloads++
	}
	return nil
}

func (s *Videos) SearchTitle(_ context.Context, text string, limit int) ([]model.Video, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))
	out := s.collect(func(v *model.Video) bool {
		return v.Status == model.StatusActive && re.MatchString(v.Title)
	})
	return head(out, limit), nil
}

func (s *Videos) CountActive(_ context.Context, category model.Category) (int64, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	out := s.collect(func(v *model.Video) bool {
		return v.Status == model.StatusActive && (category == "" || v.Category == category)
	})
	return int64(len(out)), nil
}

func (s *Videos) CountAddedSince(_ context.Context, since time.Time) (int64, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	out := s.collect(func(v *model.Video) bool {
		return v.Status == model.StatusActive && !v.AddedAt.Before(since)
	})
	return int64(len(out)), nil
}

func (s *Videos) TopViewedSince(_ context.Context, since time.Time, limit int) ([]model.Video, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	out := s.collect(func(v *model.Video) bool {
		return v.Status == model.StatusActive && !v.AddedAt.Before(since)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return head(out, limit), nil
}

// collect returns copies of matching records in insertion order.
func (s *Videos) collect(keep func(*model.Video) bool) []model.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Video, 0)
	for _, id := range s.order {
		if v := s.byID[id]; keep(v) {
			out = append(out, *clone(v))
		}
	}
	return out
}

// clone copies v along with its optional fields, so callers never share
// storage with the store.
func clone(v *model.Video) *model.Video {
	cp := *v
	cp.Season = ptr(v.Season)
	cp.Episode = ptr(v.Episode)
	cp.FileSize = ptr(v.FileSize)
	cp.Duration = ptr(v.Duration)
	cp.DeletedAt = ptr(v.DeletedAt)
	return &cp
}

func ptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
