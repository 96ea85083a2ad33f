package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

// Field limits matching the stored document contract.
const (
	MaxVideoIDLen    = 64
	MaxSearchLen     = 100
	MaxListLimit     = 200
	MaxPopularDays   = 365
	MaxPopularLimit  = 100
	DefaultListLimit = 50
)

// videoIDRe matches catalog ids: "vid_" followed by hex, or the fallback
// "vid_<message id>" form.
var videoIDRe = regexp.MustCompile(`^vid_[A-Za-z0-9_-]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 64 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId must look like vid_xxxxxxxx"
	}
	return id, ""
}

// ValidateUserID parses a platform user id. Zero is rejected.
func ValidateUserID(raw string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "userId is required"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, "userId must be a non-zero integer"
	}
	return id, ""
}

// ValidateCategory accepts an empty value (all categories) or a known category.
func ValidateCategory(raw string) (model.Category, string) {
	c := model.Category(strings.TrimSpace(strings.ToLower(raw)))
	if c == "" || c.Valid() {
		return c, ""
	}
	return "", "category must be one of adult, movie, series, other"
}

// ValidateSearch trims the query and enforces its length.
func ValidateSearch(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "q is required"
	}
	if len([]rune(q)) > MaxSearchLen {
		return "", "q must be at most 100 characters"
	}
	return q, ""
}

// ParseBoundedInt parses an optional positive integer query value, using def
// when empty and clamping to max.
func ParseBoundedInt(raw string, def, max int) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, "must be a positive integer"
	}
	if n > max {
		n = max
	}
	return n, ""
}
