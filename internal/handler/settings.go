package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/cineflix-go/internal/service"
)

type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c fiber.Ctx) error {
	st, err := h.svc.Get(c.Context())
	if err != nil {
		return storeError(c, err, "settings")
	}
	return c.JSON(st)
}

type setRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Set handles PUT /api/settings with {"key": "features.maintenance_mode", "value": true}.
func (h *SettingsHandler) Set(c fiber.Ctx) error {
	var req setRequest
	if err := c.Bind().JSON(&req); err != nil || req.Key == "" {
		return badRequest(c, "key and value are required")
	}

	if err := h.svc.Set(c.Context(), req.Key, req.Value); err != nil {
		return storeError(c, err, "settings")
	}
	return h.Get(c)
}
