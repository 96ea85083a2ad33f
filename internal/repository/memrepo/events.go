package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

// Events is an in-memory append-only analytics log.
type Events struct {
	faults
	mu     sync.RWMutex
	events []model.Event
}

func NewEvents() *Events {
	return &Events{}
}

// Len returns the number of stored events.
func (s *Events) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// All returns a copy of every stored event.
func (s *Events) All() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Event(nil), s.events...)
}

func (s *Events) Insert(_ context.Context, e *model.Event) error {
	if err := s.failure(); err != nil {
		return err
	}
	s.mu.Lock()
	s.events = append(s.events, *e)
	s.mu.Unlock()
	return nil
}

func (s *Events) TopVideos(_ context.Context, action model.Action, since time.Time, limit int) ([]model.VideoCount, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.Action == action && !e.Timestamp.Before(since) {
			counts[e.VideoID]++
		}
	}
	s.mu.RUnlock()

	out := make([]model.VideoCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, model.VideoCount{VideoID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].VideoID < out[j].VideoID
	})
	return head(out, limit), nil
}

func (s *Events) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var removed int64
	for _, e := range s.events {
		if e.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return removed, nil
}
