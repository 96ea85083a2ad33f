package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/classify"
	"github.com/mathieu-neron/cineflix-go/internal/middleware"
	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
	"github.com/mathieu-neron/cineflix-go/internal/service"
)

const maxSheetIDs = 50

type VideoHandler struct {
	catalog   *service.CatalogService
	ingest    *service.IngestService
	analytics *service.AnalyticsService
	users     *service.UserService
	settings  *service.SettingsService
}

func NewVideoHandler(
	catalog *service.CatalogService,
	ingest *service.IngestService,
	analytics *service.AnalyticsService,
	users *service.UserService,
	settings *service.SettingsService,
) *VideoHandler {
	return &VideoHandler{
		catalog:   catalog,
		ingest:    ingest,
		analytics: analytics,
		users:     users,
		settings:  settings,
	}
}

// videoLabels are the human-readable renderings shown next to a video.
type videoLabels struct {
	FileSize      string `json:"fileSize"`
	Duration      string `json:"duration"`
	Added         string `json:"added"`
	SheetCode     string `json:"sheetCode"`
	TitleMarkdown string `json:"titleMarkdown"`
}

type videoView struct {
	model.Video
	Labels videoLabels `json:"labels"`
}

func newVideoView(v model.Video, now time.Time) videoView {
	var size, duration int64
	if v.FileSize != nil {
		size = *v.FileSize
	}
	if v.Duration != nil {
		duration = *v.Duration
	}
	return videoView{
		Video: v,
		Labels: videoLabels{
			FileSize:      classify.FormatFileSize(size),
			Duration:      classify.FormatDuration(duration),
			Added:         classify.FormatTimeAgo(v.AddedAt, now),
			SheetCode:     classify.GenerateSheetCode(v),
			TitleMarkdown: classify.EscapeMarkdown(v.Title),
		},
	}
}

// List handles GET /api/videos?category=&limit=
// Store failures degrade to an empty list.
func (h *VideoHandler) List(c fiber.Ctx) error {
	category, msg := middleware.ValidateCategory(c.Query("category"))
	if msg != "" {
		return badRequest(c, msg)
	}
	limit, msg := middleware.ParseBoundedInt(c.Query("limit"), middleware.DefaultListLimit, middleware.MaxListLimit)
	if msg != "" {
		return badRequest(c, "limit "+msg)
	}

	videos, err := h.catalog.List(c.Context(), category, limit)
	if err != nil {
		if errors.Is(err, repository.ErrValidation) {
			return storeError(c, err, "videos")
		}
		log.Warn().Err(err).Msg("video list degraded to empty")
		videos = []model.Video{}
	}
	return c.JSON(fiber.Map{"videos": videos, "count": len(videos)})
}

// Search handles GET /api/videos/search?q=
func (h *VideoHandler) Search(c fiber.Ctx) error {
	q, msg := middleware.ValidateSearch(c.Query("q"))
	if msg != "" {
		return badRequest(c, msg)
	}

	videos, err := h.catalog.Search(c.Context(), q)
	if err != nil {
		log.Warn().Err(err).Msg("video search degraded to empty")
		videos = []model.Video{}
	}
	return c.JSON(fiber.Map{"videos": videos, "count": len(videos)})
}

// Popular handles GET /api/videos/popular?days=&limit=
func (h *VideoHandler) Popular(c fiber.Ctx) error {
	days, msg := middleware.ParseBoundedInt(c.Query("days"), service.DefaultPopularDays, middleware.MaxPopularDays)
	if msg != "" {
		return badRequest(c, "days "+msg)
	}
	limit, msg := middleware.ParseBoundedInt(c.Query("limit"), service.DefaultPopularLimit, middleware.MaxPopularLimit)
	if msg != "" {
		return badRequest(c, "limit "+msg)
	}

	videos, err := h.analytics.PopularVideos(c.Context(), days, limit)
	if err != nil {
		log.Warn().Err(err).Msg("popular videos degraded to empty")
		videos = []model.PopularVideo{}
	}
	return c.JSON(fiber.Map{"videos": videos, "count": len(videos)})
}

// Sheet handles GET /api/videos/sheet?ids=vid_a,vid_b
// Ids that are missing or deleted are skipped.
func (h *VideoHandler) Sheet(c fiber.Ctx) error {
	raw := strings.Split(c.Query("ids"), ",")
	if len(raw) > maxSheetIDs {
		return badRequest(c, "at most 50 ids per sheet")
	}

	videos := make([]model.Video, 0, len(raw))
	for _, r := range raw {
		id, msg := middleware.ValidateVideoID(r)
		if msg != "" {
			continue
		}
		v, err := h.catalog.Get(c.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return storeError(c, err, "videos")
		}
		videos = append(videos, *v)
	}

	return c.JSON(fiber.Map{
		"codes": classify.GenerateBatchSheetCodes(videos),
		"count": len(videos),
	})
}

// Get handles GET /api/videos/:videoId
func (h *VideoHandler) Get(c fiber.Ctx) error {
	id, msg := middleware.ValidateVideoID(c.Params("videoId"))
	if msg != "" {
		return badRequest(c, msg)
	}

	v, err := h.catalog.Get(c.Context(), id)
	if err != nil {
		return storeError(c, err, "video")
	}
	return c.JSON(newVideoView(*v, time.Now()))
}

// Ingest handles POST /api/videos
func (h *VideoHandler) Ingest(c fiber.Ctx) error {
	var req service.Upload
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}

	v, err := h.ingest.Ingest(c.Context(), req)
	if err != nil {
		return storeError(c, err, "video")
	}
	Metrics.IngestedTotal.WithLabelValues(string(v.Category)).Inc()
	return c.Status(fiber.StatusCreated).JSON(newVideoView(*v, time.Now()))
}

// Update handles PUT /api/videos/:videoId
func (h *VideoHandler) Update(c fiber.Ctx) error {
	id, msg := middleware.ValidateVideoID(c.Params("videoId"))
	if msg != "" {
		return badRequest(c, msg)
	}
	var upd model.VideoUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return badRequest(c, "Invalid JSON body")
	}

	ok, err := h.catalog.Update(c.Context(), id, upd)
	if err != nil {
		return storeError(c, err, "video")
	}
	if !ok {
		return storeError(c, repository.ErrNotFound, "video")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/videos/:videoId
func (h *VideoHandler) Delete(c fiber.Ctx) error {
	id, msg := middleware.ValidateVideoID(c.Params("videoId"))
	if msg != "" {
		return badRequest(c, msg)
	}

	ok, err := h.catalog.SoftDelete(c.Context(), id)
	if err != nil {
		return storeError(c, err, "video")
	}
	if !ok {
		return storeError(c, repository.ErrNotFound, "video")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type deliverRequest struct {
	UserID int64        `json:"userId"`
	Action model.Action `json:"action"`
}

// Deliver handles POST /api/videos/:videoId/deliver. It records one delivery
// of the video to a user: counters, analytics, user activity and the global
// sent counter. Only the catalog lookup can fail the request.
func (h *VideoHandler) Deliver(c fiber.Ctx) error {
	id, msg := middleware.ValidateVideoID(c.Params("videoId"))
	if msg != "" {
		return badRequest(c, msg)
	}
	var req deliverRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if req.UserID == 0 {
		return badRequest(c, "userId is required")
	}
	if req.Action == "" {
		req.Action = model.ActionView
	}
	if req.Action != model.ActionView && req.Action != model.ActionDownload {
		return badRequest(c, "action must be view or download")
	}

	ctx := c.Context()
	if h.settings.MaintenanceMode(ctx) {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "MAINTENANCE", "Delivery is paused for maintenance")
	}

	v, err := h.catalog.Get(ctx, id)
	if err != nil {
		return storeError(c, err, "video")
	}

	if req.Action == model.ActionDownload {
		h.catalog.IncrementDownload(ctx, id)
	} else {
		h.catalog.IncrementView(ctx, id)
	}
	h.analytics.Record(ctx, req.UserID, id, req.Action)

	if err := h.users.RecordActivity(ctx, req.UserID); err != nil {
		log.Warn().Err(err).Str("video_id", id).Msg("user activity not recorded")
	}
	if err := h.settings.Increment(ctx, model.SettingTotalVideosSent); err != nil {
		log.Warn().Err(err).Msg("sent counter not updated")
	}
	Metrics.DeliveriesTotal.WithLabelValues(string(req.Action)).Inc()

	return c.JSON(newVideoView(*v, time.Now()))
}
