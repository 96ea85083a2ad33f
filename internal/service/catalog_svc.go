package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

const (
	DefaultListLimit = 50
	SearchLimit      = 20
)

var validate = validator.New()

// CatalogService owns the lifecycle of video records.
type CatalogService struct {
	store VideoStore
	now   func() time.Time
}

func NewCatalogService(store VideoStore) *CatalogService {
	return &CatalogService{store: store, now: time.Now}
}

// Add validates v, stamps its lifecycle fields and inserts it. v is updated in
// place with the stored values.
func (s *CatalogService) Add(ctx context.Context, v *model.Video) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrValidation, err)
	}

	now := s.now()
	v.AddedAt = now
	v.LastUpdated = now
	v.Views = 0
	v.Downloads = 0
	v.Status = model.StatusActive
	v.DeletedAt = nil

	if err := s.store.Insert(ctx, v); err != nil {
		return err
	}
	log.Info().Str("component", "catalog").Str("video_id", v.VideoID).
		Str("category", string(v.Category)).Msg("video added")
	return nil
}

// Get returns an active video. Missing and soft-deleted both yield ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, videoID string) (*model.Video, error) {
	return s.store.FindActive(ctx, videoID)
}

// List returns active videos newest first. An empty category lists all.
func (s *CatalogService) List(ctx context.Context, category model.Category, limit int) ([]model.Video, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", repository.ErrValidation, category)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.store.ListActive(ctx, category, limit)
}

// Update merges the set fields of upd and refreshes last_updated.
func (s *CatalogService) Update(ctx context.Context, videoID string, upd model.VideoUpdate) (bool, error) {
	if upd.Category != nil && !upd.Category.Valid() {
		return false, fmt.Errorf("%w: unknown category %q", repository.ErrValidation, *upd.Category)
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return false, fmt.Errorf("%w: empty title", repository.ErrValidation)
	}
	if upd.Season != nil && *upd.Season <= 0 {
		return false, fmt.Errorf("%w: season must be positive", repository.ErrValidation)
	}
	if upd.Episode != nil && *upd.Episode <= 0 {
		return false, fmt.Errorf("%w: episode must be positive", repository.ErrValidation)
	}
	return s.store.Update(ctx, videoID, upd, s.now())
}

// SoftDelete marks a video deleted. The record is retained.
func (s *CatalogService) SoftDelete(ctx context.Context, videoID string) (bool, error) {
	ok, err := s.store.SoftDelete(ctx, videoID, s.now())
	if err != nil {
		return false, err
	}
	if ok {
		log.Info().Str("component", "catalog").Str("video_id", videoID).Msg("video soft-deleted")
	}
	return ok, nil
}

// IncrementView adds one to the view counter. Failures are logged and dropped.
func (s *CatalogService) IncrementView(ctx context.Context, videoID string) {
	s.increment(ctx, videoID, model.CounterViews)
}

// IncrementDownload adds one to the download counter. Failures are logged and dropped.
func (s *CatalogService) IncrementDownload(ctx context.Context, videoID string) {
	s.increment(ctx, videoID, model.CounterDownloads)
}

func (s *CatalogService) increment(ctx context.Context, videoID string, counter model.Counter) {
	if err := s.store.Increment(ctx, videoID, counter); err != nil {
		telemetryFailures.WithLabelValues("increment_" + string(counter)).Inc()
		log.Warn().Err(err).Str("component", "catalog").Str("video_id", videoID).
			Str("counter", string(counter)).Msg("counter increment failed")
	}
}

// Search matches text literally and case-insensitively against titles.
func (s *CatalogService) Search(ctx context.Context, text string) ([]model.Video, error) {
	return s.store.SearchTitle(ctx, text, SearchLimit)
}
