package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

type settingKind int

const (
	kindString settingKind = iota
	kindBool
	kindCounter
)

var settingKinds = map[string]settingKind{
	model.SettingWelcomeMessage:      kindString,
	model.SettingHelpMessage:         kindString,
	model.SettingMaintenanceMode:     kindBool,
	model.SettingNewUserRegistration: kindBool,
	model.SettingBroadcastEnabled:    kindBool,
	model.SettingTotalBroadcasts:     kindCounter,
	model.SettingTotalVideosSent:     kindCounter,
}

// SettingsService reads and merges the singleton settings document. Every
// call goes to the store; nothing is cached in process.
type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the settings, creating the default document on first access.
func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	return s.store.GetOrCreate(ctx, model.DefaultSettings())
}

// Set merges a single field. key is a dotted path such as
// "features.maintenance_mode"; value must match the field type.
func (s *SettingsService) Set(ctx context.Context, key string, value any) error {
	v, err := coerceSetting(key, value)
	if err != nil {
		return err
	}
	if _, err := s.Get(ctx); err != nil {
		return err
	}
	if err := s.store.SetField(ctx, key, v); err != nil {
		return err
	}
	log.Info().Str("component", "settings").Str("key", key).Msg("setting updated")
	return nil
}

// Increment adds one to a stats.* counter.
func (s *SettingsService) Increment(ctx context.Context, key string) error {
	if kind, ok := settingKinds[key]; !ok || kind != kindCounter {
		return fmt.Errorf("%w: %q is not a counter", repository.ErrValidation, key)
	}
	if _, err := s.Get(ctx); err != nil {
		return err
	}
	return s.store.IncField(ctx, key, 1)
}

// MaintenanceMode reports the maintenance flag. Store failures read as off.
func (s *SettingsService) MaintenanceMode(ctx context.Context) bool {
	st, err := s.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Str("component", "settings").Msg("maintenance flag unavailable")
		return false
	}
	return st.Features.MaintenanceMode
}

// coerceSetting checks key and normalises value to the stored Go type.
// JSON numbers arrive as float64 and are accepted for counters when integral.
func coerceSetting(key string, value any) (any, error) {
	kind, ok := settingKinds[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", repository.ErrValidation, key)
	}

	switch kind {
	case kindString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case kindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case kindCounter:
		switch v := value.(type) {
		case int:
			if v >= 0 {
				return int64(v), nil
			}
		case int64:
			if v >= 0 {
				return v, nil
			}
		case float64:
			if v >= 0 && v == math.Trunc(v) && v < math.MaxInt64 {
				return int64(v), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: bad value %v for %s", repository.ErrValidation, value, key)
}
