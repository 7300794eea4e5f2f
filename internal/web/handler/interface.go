package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, svc *orchestrator.Service)
}
