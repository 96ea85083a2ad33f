package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/middleware"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
)

// storeError maps a typed store or service error onto an API error response.
func storeError(c fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", what+" not found")
	case errors.Is(err, repository.ErrValidation):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, repository.ErrDuplicateKey):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "DUPLICATE", what+" already exists")
	case errors.Is(err, repository.ErrStoreUnavailable):
		log.Error().Err(err).Str("path", c.Path()).Msg("store unavailable")
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is temporarily unavailable")
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process "+what)
	}
}

func badRequest(c fiber.Ctx, msg string) error {
	return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_INPUT", msg)
}
