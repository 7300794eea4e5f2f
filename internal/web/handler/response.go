package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
)

// Status maps an orchestrator error to its HTTP status.
func Status(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, orchestrator.ErrValidation),
		errors.Is(err, orchestrator.ErrDuplicateKey),
		errors.Is(err, orchestrator.ErrUnavailable):
		return fiber.StatusBadRequest
	case errors.Is(err, orchestrator.ErrAuthentication):
		return fiber.StatusUnauthorized
	case errors.Is(err, orchestrator.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, orchestrator.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, orchestrator.ErrConflict):
		return fiber.StatusConflict
	}

	return fiber.StatusInternalServerError
}

// Error writes err as {"error": message}. Internal causes never reach the client.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(fiber.Map{"error": orchestrator.Message(err)})
}

// BadRequest writes a 400 with msg.
func BadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
