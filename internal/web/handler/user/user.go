// Package user serves account listing, sign-up-or-login and account activation.
package user

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/web/handler"
)

const (
	// Path is the path of the account collection.
	Path = handler.APIPath + "/users"

	// NamesPath is the path of the display name list.
	NamesPath = Path + "/usernames"

	// ActiveStatusPath is the path of the activation flag of one account.
	ActiveStatusPath = handler.APIPath + "/:user_id/update-active-status"

	msgSignedUp  = "Congratulations! You have made an account!"
	msgLoggedIn  = "Welcome Back!"
	msgActivated = "User %s active account status updated to %t"
)

// Service is the account handler service.
type Service struct {
	handler.Service
	svc *orchestrator.Service
}

// Handler is the account handler.
var Handler = Service{}

// Init registers the account routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *orchestrator.Service) {
	if app == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilAppFatalLogMsg)
		return
	}

	s.svc = svc

	app.Get(NamesPath, s.Names)
	app.Get(Path, s.List)
	app.Post(Path, s.SignUpOrLogin)
	app.Patch(ActiveStatusPath, s.UpdateActiveStatus)
}

// Names returns every display name.
func (s *Service) Names(c *fiber.Ctx) error {
	names, err := s.svc.ListUserNames(handler.Context(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"usernames_list": names})
}

// List returns the accounts matching the status query parameter.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.svc.ListUsers(handler.Context(c), c.Query("status"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}

type signUpRequest struct {
	RoleID   handler.RoleRef `json:"role_id"`
	UserID   string          `json:"user_id"`
	UserName string          `json:"user_name"`
	Password string          `json:"password"`
}

// SignUpOrLogin logs in an existing account (201) or registers a new one (200).
func (s *Service) SignUpOrLogin(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug().Err(err).Msg("failed to parse sign-up request")
		return handler.BadRequest(c, handler.MsgInvalidBody)
	}

	sess, err := s.svc.SignUpOrLogin(handler.Context(c), orchestrator.SignUpRequest{
		Role:     uint(req.RoleID),
		UserID:   req.UserID,
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		return handler.Error(c, err)
	}

	if sess.Created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message":           msgSignedUp,
			"user_id":           sess.User.UserID,
			"is_active_account": sess.User.Active,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":           msgLoggedIn,
		"user_id":           sess.User.UserID,
		"is_active_account": sess.User.Active,
		"book_checkouts":    sess.Checkouts,
	})
}

type activeStatusRequest struct {
	handler.Tuple
	NewActiveStatus *bool `json:"new_active_status"`
}

// UpdateActiveStatus turns an account on or off.
func (s *Service) UpdateActiveStatus(c *fiber.Ctx) error {
	var req activeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug().Err(err).Msg("failed to parse active status request")
		return handler.BadRequest(c, handler.MsgInvalidBody)
	}

	userID := c.Params("user_id")

	if err := s.svc.UpdateActiveStatus(handler.Context(c), req.Caller(), userID, req.NewActiveStatus); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf(msgActivated, userID, *req.NewActiveStatus)})
}
