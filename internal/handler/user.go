package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/middleware"
	"github.com/mathieu-neron/cineflix-go/internal/model"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
	"github.com/mathieu-neron/cineflix-go/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List handles GET /api/users. Banned users are left out.
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.svc.ListActive(c.Context())
	if err != nil {
		log.Warn().Err(err).Msg("user list degraded to empty")
		users = []model.User{}
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// Get handles GET /api/users/:userId
func (h *UserHandler) Get(c fiber.Ctx) error {
	id, msg := middleware.ValidateUserID(c.Params("userId"))
	if msg != "" {
		return badRequest(c, msg)
	}

	u, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return storeError(c, err, "user")
	}
	return c.JSON(u)
}

// Contact handles POST /api/users/:userId/contact. The body is optional.
func (h *UserHandler) Contact(c fiber.Ctx) error {
	id, msg := middleware.ValidateUserID(c.Params("userId"))
	if msg != "" {
		return badRequest(c, msg)
	}
	var p model.Profile
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&p); err != nil {
			return badRequest(c, "Invalid JSON body")
		}
	}

	res, err := h.svc.UpsertOnContact(c.Context(), id, p)
	if err != nil {
		return storeError(c, err, "user")
	}

	status := fiber.StatusOK
	if res == model.ContactCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"result": res})
}

type banRequest struct {
	Banned *bool `json:"banned"`
}

// Ban handles PUT /api/users/:userId/ban with {"banned": true|false}.
func (h *UserHandler) Ban(c fiber.Ctx) error {
	id, msg := middleware.ValidateUserID(c.Params("userId"))
	if msg != "" {
		return badRequest(c, msg)
	}
	var req banRequest
	if err := c.Bind().JSON(&req); err != nil || req.Banned == nil {
		return badRequest(c, "banned (bool) is required")
	}

	ok, err := h.svc.SetBanned(c.Context(), id, *req.Banned)
	if err != nil {
		return storeError(c, err, "user")
	}
	if !ok {
		return storeError(c, repository.ErrNotFound, "user")
	}
	return c.JSON(fiber.Map{"success": true, "banned": *req.Banned})
}
