package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/classify"
	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

const maxIngestAttempts = 3

// Upload is a piece of media forwarded to a backing channel, described by
// whatever the uploader attached to it.
type Upload struct {
	MessageID int64          `json:"messageId" validate:"required,gt=0"`
	Caption   string         `json:"caption" validate:"max=4096"`
	FileName  string         `json:"fileName" validate:"max=255"`
	FileSize  int64          `json:"fileSize" validate:"gte=0"`
	Duration  int64          `json:"duration" validate:"gte=0"`
	Category  model.Category `json:"category,omitempty" validate:"omitempty,oneof=adult movie series other"`
}

// IngestService turns uploads into catalog records.
type IngestService struct {
	catalog *CatalogService
	stores  model.StoreMap
	newID   func(sourceRef, store string) string
}

func NewIngestService(catalog *CatalogService, stores model.StoreMap) *IngestService {
	return &IngestService{catalog: catalog, stores: stores, newID: classify.GenerateVideoID}
}

// Ingest classifies u and adds it to the catalog. Id collisions are retried
// with a salted source reference; any other failure is returned as is.
func (s *IngestService) Ingest(ctx context.Context, u Upload) (*model.Video, error) {
	if err := validate.Struct(u); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrValidation, err)
	}

	v := s.classify(u)
	store := strconv.FormatInt(v.Database, 10)
	sourceRef := strconv.FormatInt(u.MessageID, 10)

	var err error
	for attempt := 0; attempt < maxIngestAttempts; attempt++ {
		ref := sourceRef
		if attempt > 0 {
			ref = sourceRef + "-" + strconv.Itoa(attempt)
		}
		v.VideoID = s.newID(ref, store)

		err = s.catalog.Add(ctx, v)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
		log.Debug().Str("component", "ingest").Str("video_id", v.VideoID).Int("attempt", attempt+1).Msg("video id taken, retrying")
	}
	return nil, err
}

func (s *IngestService) classify(u Upload) *model.Video {
	text := strings.TrimSpace(u.Caption + " " + u.FileName)

	category := u.Category
	if category == "" {
		category = classify.DetectCategory(text)
	}

	v := &model.Video{
		Title:     classify.ExtractVideoTitle(u.Caption, u.FileName),
		Category:  category,
		Database:  s.stores.For(category),
		MessageID: u.MessageID,
	}
	if category == model.CategorySeries {
		if season, episode, ok := classify.ExtractEpisodeInfo(text); ok && season > 0 && episode > 0 {
			v.Season = &season
			v.Episode = &episode
		}
	}
	if u.FileName != "" {
		v.FileName = classify.CleanFilename(u.FileName)
	}
	if u.FileSize > 0 {
		size := u.FileSize
		v.FileSize = &size
	}
	if u.Duration > 0 {
		d := u.Duration
		v.Duration = &d
	}
	return v
}
