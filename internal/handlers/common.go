package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// isDuplicateErr recognizes unique-constraint violations. The constraint is
// the authoritative guard against insert races, so these are expected and map
// to Conflict rather than a 500. String fallbacks cover drivers that don't
// translate to gorm.ErrDuplicatedKey.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "UNIQUE constraint")
}

// emptyIfNil keeps empty listings serializing as [] rather than null.
func emptyIfNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// getAuth reads the authenticated user id set by AttachJWTLocals.
func getAuth(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("userId").(string)
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uid, nil
}

// serverError logs the real error internally and returns a sanitized 500.
func serverError(c *fiber.Ctx, log *zap.Logger, op string, err error) error {
	log.Error("internal error", zap.String("op", op), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Server error",
	})
}
