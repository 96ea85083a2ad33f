package service

import (
	"context"
	"time"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

// VideoStore persists the catalog. Lookups and listings only see active records.
type VideoStore interface {
	Insert(ctx context.Context, v *model.Video) error
	FindActive(ctx context.Context, videoID string) (*model.Video, error)
	ListActive(ctx context.Context, category model.Category, limit int) ([]model.Video, error)
	Update(ctx context.Context, videoID string, upd model.VideoUpdate, at time.Time) (bool, error)
	SoftDelete(ctx context.Context, videoID string, at time.Time) (bool, error)
	Increment(ctx context.Context, videoID string, counter model.Counter) error
	SearchTitle(ctx context.Context, text string, limit int) ([]model.Video, error)
	CountActive(ctx context.Context, category model.Category) (int64, error)
	CountAddedSince(ctx context.Context, since time.Time) (int64, error)
	TopViewedSince(ctx context.Context, since time.Time, limit int) ([]model.Video, error)
}

// UserStore persists registered users.
type UserStore interface {
	Insert(ctx context.Context, u *model.User) error
	FindByUserID(ctx context.Context, userID int64) (*model.User, error)
	Touch(ctx context.Context, userID int64, at time.Time) (bool, error)
	RecordActivity(ctx context.Context, userID int64, at time.Time) (bool, error)
	ListActive(ctx context.Context) ([]model.User, error)
	SetBanned(ctx context.Context, userID int64, banned bool, at time.Time) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	CountJoinedSince(ctx context.Context, since time.Time) (int64, error)
}

// SettingsStore persists the singleton settings document.
type SettingsStore interface {
	GetOrCreate(ctx context.Context, defaults model.Settings) (*model.Settings, error)
	SetField(ctx context.Context, key string, value any) error
	IncField(ctx context.Context, key string, delta int64) error
}

// EventStore persists analytics events.
type EventStore interface {
	Insert(ctx context.Context, e *model.Event) error
	TopVideos(ctx context.Context, action model.Action, since time.Time, limit int) ([]model.VideoCount, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
