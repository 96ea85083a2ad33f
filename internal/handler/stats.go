package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/cineflix-go/internal/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/stats. The snapshot is all zeros when the store
// is unreachable, so this never fails.
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	return c.JSON(h.svc.Snapshot(c.Context()))
}
