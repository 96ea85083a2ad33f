package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

// UserService is the user registry.
type UserService struct {
	store UserStore
	now   func() time.Time
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, now: time.Now}
}

// UpsertOnContact registers a new user or refreshes last_active of a known one.
// Known users are otherwise left untouched, so repeated calls are idempotent.
func (s *UserService) UpsertOnContact(ctx context.Context, userID int64, p model.Profile) (model.ContactResult, error) {
	now := s.now()

	found, err := s.store.Touch(ctx, userID, now)
	if err != nil {
		return "", err
	}
	if found {
		return model.ContactExisting, nil
	}

	u := &model.User{
		UserID:     userID,
		Username:   p.Username,
		FirstName:  p.FirstName,
		JoinedAt:   now,
		LastActive: now,
		Language:   model.DefaultLanguage,
	}
	err = s.store.Insert(ctx, u)
	switch {
	case err == nil:
		log.Info().Str("component", "users").Int64("user_id", userID).Msg("new user registered")
		return model.ContactCreated, nil
	case errors.Is(err, repository.ErrDuplicateKey):
		// Lost the race to a concurrent first contact.
		if _, err := s.store.Touch(ctx, userID, now); err != nil {
			return "", err
		}
		return model.ContactExisting, nil
	default:
		return "", err
	}
}

// Get returns a user by platform id.
func (s *UserService) Get(ctx context.Context, userID int64) (*model.User, error) {
	return s.store.FindByUserID(ctx, userID)
}

// ListActive returns every user that is not banned.
func (s *UserService) ListActive(ctx context.Context) ([]model.User, error) {
	return s.store.ListActive(ctx)
}

// SetBanned bans or unbans a user and reports whether the user exists.
func (s *UserService) SetBanned(ctx context.Context, userID int64, banned bool) (bool, error) {
	ok, err := s.store.SetBanned(ctx, userID, banned, s.now())
	if err != nil {
		return false, err
	}
	if ok {
		log.Info().Str("component", "users").Int64("user_id", userID).Bool("banned", banned).Msg("ban state changed")
	}
	return ok, nil
}

// RecordActivity bumps last_active and counts one consumed video.
func (s *UserService) RecordActivity(ctx context.Context, userID int64) error {
	ok, err := s.store.RecordActivity(ctx, userID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}
