package memrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

// Users is an in-memory user registry store.
type Users struct {
	faults
	mu    sync.RWMutex
	order []int64
	byID  map[int64]*model.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[int64]*model.User)}
}

func (s *Users) Insert(_ context.Context, u *model.User) error {
	if err := s.failure(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[u.UserID]; ok {
		return fmt.Errorf("%w: user_id %d", repository.ErrDuplicateKey, u.UserID)
	}
	cp := *u
	s.byID[u.UserID] = &cp
	s.order = append(s.order, u.UserID)
	return nil
}

func (s *Users) FindByUserID(_ context.Context, userID int64) (*model.User, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Users) Touch(_ context.Context, userID int64, at time.Time) (bool, error) {
	return s.mutate(userID, func(u *model.User) {
		if at.After(u.LastActive) {
			u.LastActive = at
		}
	})
}

func (s *Users) RecordActivity(_ context.Context, userID int64, at time.Time) (bool, error) {
	return s.mutate(userID, func(u *model.User) {
		if at.After(u.LastActive) {
			u.LastActive = at
		}
		u.TotalVideosWatched++
	})
}

func (s *Users) ListActive(_ context.Context) ([]model.User, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.collect(func(u *model.User) bool { return !u.IsBanned }), nil
}

func (s *Users) SetBanned(_ context.Context, userID int64, banned bool, at time.Time) (bool, error) {
	return s.mutate(userID, func(u *model.User) {
		u.IsBanned = banned
		if banned {
			bannedAt := at
			u.BannedAt = &bannedAt
		}
	})
}

func (s *Users) CountActive(_ context.Context) (int64, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	return int64(len(s.collect(func(u *model.User) bool { return !u.IsBanned }))), nil
}

func (s *Users) CountJoinedSince(_ context.Context, since time.Time) (int64, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	return int64(len(s.collect(func(u *model.User) bool { return !u.JoinedAt.Before(since) }))), nil
}

func (s *Users) mutate(userID int64, fn func(*model.User)) (bool, error) {
	if err := s.failure(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return false, nil
	}
	fn(u)
	return true, nil
}

func (s *Users) collect(keep func(*model.User) bool) []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, 0)
	for _, id := range s.order {
		if u := s.byID[id]; keep(u) {
			out = append(out, *u)
		}
	}
	return out
}
