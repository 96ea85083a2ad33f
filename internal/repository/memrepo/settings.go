package memrepo

import (
	"context"
	"fmt"
	"sync"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

// Settings is an in-memory singleton settings store.
type Settings struct {
	faults
	mu  sync.Mutex
	doc *model.Settings
}

func NewSettings() *Settings {
	return &Settings{}
}

// Exists reports whether the document has been created yet.
func (s *Settings) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc != nil
}

func (s *Settings) GetOrCreate(_ context.Context, defaults model.Settings) (*model.Settings, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		doc := defaults
		doc.ID = model.SettingsID
		s.doc = &doc
	}
	cp := *s.doc
	return &cp, nil
}

func (s *Settings) SetField(_ context.Context, key string, value any) error {
	if err := s.failure(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil
	}
	switch key {
	case model.SettingWelcomeMessage:
		return assign(&s.doc.WelcomeMessage, key, value)
	case model.SettingHelpMessage:
		return assign(&s.doc.HelpMessage, key, value)
	case model.SettingMaintenanceMode:
		return assign(&s.doc.Features.MaintenanceMode, key, value)
	case model.SettingNewUserRegistration:
		return assign(&s.doc.Features.NewUserRegistration, key, value)
	case model.SettingBroadcastEnabled:
		return assign(&s.doc.Features.BroadcastEnabled, key, value)
	case model.SettingTotalBroadcasts:
		return assign(&s.doc.Stats.TotalBroadcasts, key, value)
	case model.SettingTotalVideosSent:
		return assign(&s.doc.Stats.TotalVideosSent, key, value)
	}
	return fmt.Errorf("memrepo: unknown settings key %q", key)
}

func (s *Settings) IncField(_ context.Context, key string, delta int64) error {
	if err := s.failure(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil
	}
	switch key {
	case model.SettingTotalBroadcasts:
		s.doc.Stats.TotalBroadcasts += delta
	case model.SettingTotalVideosSent:
		s.doc.Stats.TotalVideosSent += delta
	default:
		return fmt.Errorf("memrepo: %q is not a counter", key)
	}
	return nil
}

func assign[T any](dst *T, key string, value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("memrepo: %q expects %T, got %T", key, *dst, value)
	}
	*dst = v
	return nil
}
