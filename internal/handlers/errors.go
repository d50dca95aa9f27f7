package handlers

import (
	"errors"

	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, types.ErrConflict):
		return fiber.StatusBadRequest
	case errors.Is(err, types.ErrValidation):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps service errors onto HTTP statuses. Internal failures are
// logged and answered with the generic message; everything else echoes the
// error so callers can fix the request.
func respondError(c *fiber.Ctx, log logger.Logger, err error, message string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		_ = log.Err(message, err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	log.Warn(message, "error", err.Error(), "status", status)
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func parseBody(c *fiber.Ctx, log logger.Logger, out any) bool {
	if err := c.BodyParser(out); err != nil {
		log.Warn("Invalid request body", "error", err)
		return false
	}
	return true
}

func idParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
