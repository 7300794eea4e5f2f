// Package book serves the catalog routes.
package book

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/web/handler"
)

const (
	// Path is the path of the catalog.
	Path = handler.APIPath + "/books"

	// ItemPath is the path of one book.
	ItemPath = Path + "/:book_isbn_id"

	msgAdded   = "New book %s added."
	msgDeleted = "Book %s deleted."
	msgUpdated = "Book %s successfully updated."
)

// Service is the catalog handler service.
type Service struct {
	handler.Service
	svc *orchestrator.Service
}

// Handler is the catalog handler.
var Handler = Service{}

// Init registers the catalog routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *orchestrator.Service) {
	if app == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilAppFatalLogMsg)
		return
	}

	s.svc = svc

	app.Get(Path, s.List)
	app.Post(Path, s.Insert)
	app.Delete(ItemPath, s.Remove)
	app.Patch(ItemPath, s.Update)
}

// List returns the catalog. The permission tuple comes from the query string.
func (s *Service) List(c *fiber.Ctx) error {
	tuple := handler.QueryTuple(c)

	books, err := s.svc.ListBooks(handler.Context(c), tuple.Caller())
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"books": books})
}

type insertRequest struct {
	handler.Tuple
	orchestrator.NewBook
}

// Insert adds a new title.
func (s *Service) Insert(c *fiber.Ctx) error {
	var req insertRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug().Err(err).Msg("failed to parse book insert request")
		return handler.BadRequest(c, handler.MsgInvalidBody)
	}

	b, err := s.svc.InsertBook(handler.Context(c), req.Caller(), req.NewBook)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf(msgAdded, b.BookISBNID),
		"book":    b,
	})
}

// Remove deletes a title. The permission tuple comes from the body.
func (s *Service) Remove(c *fiber.Ctx) error {
	var req handler.Tuple
	if err := c.BodyParser(&req); err != nil {
		log.Debug().Err(err).Msg("failed to parse book delete request")
		return handler.BadRequest(c, handler.MsgInvalidBody)
	}

	id := c.Params("book_isbn_id")

	if err := s.svc.RemoveBook(handler.Context(c), req.Caller(), id); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf(msgDeleted, id)})
}

type updateRequest struct {
	handler.Tuple
	orchestrator.BookPatch
}

// Update applies a partial update. Unknown and null fields are ignored.
func (s *Service) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug().Err(err).Msg("failed to parse book update request")
		return handler.BadRequest(c, handler.MsgInvalidBody)
	}

	b, err := s.svc.UpdateBook(handler.Context(c), req.Caller(), c.Params("book_isbn_id"), req.BookPatch)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      fmt.Sprintf(msgUpdated, b.BookISBNID),
		"updated_book": b,
	})
}
