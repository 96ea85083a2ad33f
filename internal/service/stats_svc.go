package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

const (
	topVideosLimit  = 5
	topVideosWindow = 7 * 24 * time.Hour
)

// StatsService builds the admin dashboard snapshot.
type StatsService struct {
	videos VideoStore
	users  UserStore
	now    func() time.Time
}

func NewStatsService(videos VideoStore, users UserStore) *StatsService {
	return &StatsService{videos: videos, users: users, now: time.Now}
}

// Snapshot computes every figure fresh. On any store failure it logs and
// returns the zero snapshot instead of an error.
func (s *StatsService) Snapshot(ctx context.Context) model.StatsSnapshot {
	snap, err := s.compute(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "stats").Msg("stats unavailable, returning empty snapshot")
		return model.StatsSnapshot{TopVideos: []model.Video{}}
	}
	return snap
}

func (s *StatsService) compute(ctx context.Context) (model.StatsSnapshot, error) {
	var snap model.StatsSnapshot
	var err error

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if snap.TotalUsers, err = s.users.CountActive(ctx); err != nil {
		return snap, err
	}
	if snap.TotalVideos, err = s.videos.CountActive(ctx, ""); err != nil {
		return snap, err
	}

	perCategory := make(map[model.Category]int64, len(model.ReportedCategories))
	for _, c := range model.ReportedCategories {
		n, err := s.videos.CountActive(ctx, c)
		if err != nil {
			return snap, err
		}
		perCategory[c] = n
	}
	snap.AdultVideos = perCategory[model.CategoryAdult]
	snap.MovieVideos = perCategory[model.CategoryMovie]
	snap.SeriesVideos = perCategory[model.CategorySeries]

	if snap.NewUsersToday, err = s.users.CountJoinedSince(ctx, midnight); err != nil {
		return snap, err
	}
	if snap.NewVideosToday, err = s.videos.CountAddedSince(ctx, midnight); err != nil {
		return snap, err
	}
	if snap.TopVideos, err = s.videos.TopViewedSince(ctx, now.Add(-topVideosWindow), topVideosLimit); err != nil {
		return snap, err
	}
	return snap, nil
}
