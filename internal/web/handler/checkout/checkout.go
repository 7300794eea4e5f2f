// Package checkout serves the borrow and return routes.
package checkout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/web/handler"
)

const (
	// BorrowPath is the path to borrow a book for an account.
	BorrowPath = handler.APIPath + "/users/:user_id/borrow-book"

	// ReturnPath is the path to return a book for an account.
	ReturnPath = handler.APIPath + "/users/:user_id/return-book"

	msgBorrowed = "Book checked out successfully!"
	msgReturned = "Book returned successfully!"
)

// Service is the checkout handler service.
type Service struct {
	handler.Service
	svc *orchestrator.Service
}

// Handler is the checkout handler.
var Handler = Service{}

// Init registers the checkout routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *orchestrator.Service) {
	if app == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilAppFatalLogMsg)
		return
	}

	s.svc = svc

	app.Patch(BorrowPath, s.Borrow)
	app.Patch(ReturnPath, s.Return)
}

type request struct {
	handler.Tuple
	BookISBNID string `json:"book_isbn_id"`
}

// Borrow lends a copy to the account in the path.
func (s *Service) Borrow(c *fiber.Ctx) error {
	var req request
	if err := c.BodyParser(&req); err != nil {
		log.Debug().Err(err).Msg("failed to parse borrow request")
		return handler.BadRequest(c, handler.MsgInvalidBody)
	}

	b, err := s.svc.Borrow(handler.Context(c), req.Caller(), c.Params("user_id"), req.BookISBNID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"message": msgBorrowed, "book": b})
}

// Return takes a copy back from the account in the path.
func (s *Service) Return(c *fiber.Ctx) error {
	var req request
	if err := c.BodyParser(&req); err != nil {
		log.Debug().Err(err).Msg("failed to parse return request")
		return handler.BadRequest(c, handler.MsgInvalidBody)
	}

	b, err := s.svc.Return(handler.Context(c), req.Caller(), c.Params("user_id"), req.BookISBNID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"message": msgReturned, "book": b})
}
