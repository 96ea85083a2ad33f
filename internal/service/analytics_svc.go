package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

const (
	DefaultPopularDays  = 7
	DefaultPopularLimit = 10
)

// AnalyticsService records delivery events and ranks videos by them.
type AnalyticsService struct {
	events EventStore
	videos VideoStore
	now    func() time.Time
}

func NewAnalyticsService(events EventStore, videos VideoStore) *AnalyticsService {
	return &AnalyticsService{events: events, videos: videos, now: time.Now}
}

// Record appends an event. It never fails the caller; errors are logged.
func (s *AnalyticsService) Record(ctx context.Context, userID int64, videoID string, action model.Action) {
	if action == "" {
		action = model.ActionView
	}
	e := &model.Event{
		EventID:   uuid.NewString(),
		UserID:    userID,
		VideoID:   videoID,
		Action:    action,
		Timestamp: s.now(),
	}
	if err := s.events.Insert(ctx, e); err != nil {
		telemetryFailures.WithLabelValues("record_event").Inc()
		log.Warn().Err(err).Str("component", "analytics").Str("video_id", videoID).
			Str("action", string(action)).Msg("analytics event dropped")
	}
}

// PopularVideos ranks videos by view events in the trailing window and joins
// each to its active catalog record. Rows whose video is gone are dropped.
func (s *AnalyticsService) PopularVideos(ctx context.Context, days, limit int) ([]model.PopularVideo, error) {
	if days <= 0 {
		days = DefaultPopularDays
	}
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	counts, err := s.events.TopVideos(ctx, model.ActionView, since, limit)
	if err != nil {
		return nil, err
	}

	popular := make([]model.PopularVideo, 0, len(counts))
	for _, c := range counts {
		v, err := s.videos.FindActive(ctx, c.VideoID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		popular = append(popular, model.PopularVideo{Video: *v, RequestCount: c.Count})
	}
	return popular, nil
}

// PurgeOlderThan irreversibly deletes events older than days and returns how many.
func (s *AnalyticsService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, fmt.Errorf("%w: negative retention %d", repository.ErrValidation, days)
	}
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	n, err := s.events.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Info().Str("component", "analytics").Int64("removed", n).Int("days", days).Msg("old analytics purged")
	return n, nil
}
