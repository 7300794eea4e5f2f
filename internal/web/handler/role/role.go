// Package role serves the fixed role set.
package role

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/web/handler"
)

// Path is the path of the role list.
const Path = handler.APIPath + "/roles"

// Service is the role handler service.
type Service struct {
	handler.Service
	svc *orchestrator.Service
}

// Handler is the role handler.
var Handler = Service{}

// Init registers the role routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *orchestrator.Service) {
	if app == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilAppFatalLogMsg)
		return
	}

	s.svc = svc

	app.Get(Path, s.List)
}

// List returns every role.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.svc.ListRoles(handler.Context(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"data": roles})
}
