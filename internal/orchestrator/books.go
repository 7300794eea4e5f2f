package orchestrator

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/auth"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/book"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/checkout"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

const (
	msgNotPermittedView   = "You are not permitted to view this resource!"
	msgInvalidBookFields  = "Missing or invalid book fields."
	msgCountsOutOfRange   = "available_count must be between 0 and total_book_count."
	msgCountsBelowLoans   = "available_count can not exceed the copies not currently borrowed."
	msgBookIDEmpty        = "book_isbn_id can not be empty."
	msgNoUpdateFields     = "No valid fields provided for update"
	msgBookStillBorrowed  = "Students are currently borrowing this book!"
	msgBookExistsFormat   = "Book %s already exists."
	msgBookNotFoundFormat = "Book %s not found."
	msgNothingDeleted     = "No matching book found. Nothing deleted."
)

// ListBooks returns the books visible to caller. The caller must claim (books, SELECT).
// Column scope "*" (or none) returns every column, a single book column returns
// {book_isbn_id, column} projections.
func (s *Service) ListBooks(ctx context.Context, caller Caller) ([]map[string]any, error) {
	r, ctx := begin(ctx, opListBooks)

	books, err := s.listBooks(ctx, r, caller)

	return books, r.finish(err)
}

func (s *Service) listBooks(ctx context.Context, r *request, caller Caller) ([]map[string]any, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	column := columnOr(caller, auth.ColumnAll)
	if column != auth.ColumnAll && !book.IsColumn(column) {
		return nil, fail(ErrPermissionDenied, msgNotPermittedView)
	}

	want := auth.Grant{Resource: auth.ResourceBooks, Action: auth.ActionSelect, Column: column}
	if err := s.authorize(ctx, nil, caller, want, msgNotPermittedView); err != nil {
		return nil, err
	}

	r.advance(stageAuthorized)

	var rows []map[string]any

	err := s.runner.Query(ctx, func(db *gorm.DB) error {
		if column != auth.ColumnAll {
			columns := []string{book.ColumnID}
			if column != book.ColumnID {
				columns = append(columns, column)
			}

			var err error
			rows, err = book.ListColumns(db, columns)

			return err
		}

		books, err := book.List(db)
		if err != nil {
			return err
		}

		rows = make([]map[string]any, 0, len(books))
		for i := range books {
			rows = append(rows, books[i].Columns())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.advance(stageApplied)

	return rows, nil
}

// InsertBook adds a new title. Every field is required and the counters must satisfy
// 0 <= available_count <= total_book_count.
func (s *Service) InsertBook(ctx context.Context, caller Caller, nb NewBook) (*models.Book, error) {
	r, ctx := begin(ctx, opInsertBook)

	b, err := s.insertBook(ctx, r, caller, nb)

	return b, r.finish(err)
}

func (s *Service) insertBook(ctx context.Context, r *request, caller Caller, nb NewBook) (*models.Book, error) {
	if err := s.validate.Struct(nb); err != nil {
		return nil, failWith(ErrValidation, msgInvalidBookFields, err)
	}

	b := nb.Model()
	if b.AvailableCount > b.TotalBookCount {
		return nil, fail(ErrValidation, msgCountsOutOfRange)
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	if err := s.authorizeRowAction(ctx, caller, auth.ResourceBooks, auth.ActionInsert); err != nil {
		return nil, err
	}

	r.advance(stageAuthorized)

	err := s.runner.Run(ctx, func(db *gorm.DB) error {
		err := book.Create(db, b)
		if errors.Is(err, book.ErrBookExists) {
			return fail(ErrDuplicateKey, fmt.Sprintf(msgBookExistsFormat, b.BookISBNID))
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	r.advance(stageApplied)

	return b, nil
}

// RemoveBook deletes a title. It fails with ErrConflict while any copy is checked out.
func (s *Service) RemoveBook(ctx context.Context, caller Caller, id string) error {
	r, ctx := begin(ctx, opRemoveBook)

	return r.finish(s.removeBook(ctx, r, caller, id))
}

func (s *Service) removeBook(ctx context.Context, r *request, caller Caller, id string) error {
	if id == "" {
		return fail(ErrValidation, msgBookIDEmpty)
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}

	if err := s.authorizeRowAction(ctx, caller, auth.ResourceBooks, auth.ActionDelete); err != nil {
		return err
	}

	r.advance(stageAuthorized)

	err := s.runner.Run(ctx, func(db *gorm.DB) error {
		if _, err := book.GetForUpdate(db, id); err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				return fail(ErrNotFound, msgNothingDeleted)
			}

			return err
		}

		n, err := checkout.CountByBook(db, id)
		if err != nil {
			return err
		}

		if n > 0 {
			return fail(ErrConflict, msgBookStillBorrowed)
		}

		return book.Delete(db, id)
	})
	if err != nil {
		return err
	}

	r.advance(stageApplied)

	return nil
}

// UpdateBook applies patch to the book id. Every field present needs its own
// (books, UPDATE, column) grant. Changing book_isbn_id rekeys the book together with
// its checkouts and overdue lists.
func (s *Service) UpdateBook(ctx context.Context, caller Caller, id string, patch BookPatch) (*models.Book, error) {
	r, ctx := begin(ctx, opUpdateBook)

	b, err := s.updateBook(ctx, r, caller, id, patch)

	return b, r.finish(err)
}

func (s *Service) updateBook(
	ctx context.Context,
	r *request,
	caller Caller,
	id string,
	patch BookPatch,
) (*models.Book, error) {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, fail(ErrValidation, msgNoUpdateFields)
	}

	if id == "" {
		return nil, fail(ErrValidation, msgBookIDEmpty)
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	for _, f := range fields {
		want := auth.Grant{Resource: auth.ResourceBooks, Action: auth.ActionUpdate, Column: f}
		if err := s.authorize(ctx, nil, caller, want, msgNotPermitted); err != nil {
			return nil, err
		}
	}

	r.advance(stageAuthorized)

	var updated *models.Book

	err := s.runner.Run(ctx, func(db *gorm.DB) error {
		b, err := book.GetForUpdate(db, id)
		if errors.Is(err, book.ErrBookNotFound) {
			return fail(ErrNotFound, fmt.Sprintf(msgBookNotFoundFormat, id))
		}

		if err != nil {
			return err
		}

		patch.Apply(b)

		if b.BookISBNID == "" {
			return fail(ErrValidation, msgBookIDEmpty)
		}

		if b.AvailableCount < 0 || b.AvailableCount > b.TotalBookCount {
			return fail(ErrValidation, msgCountsOutOfRange)
		}

		// Every outstanding checkout holds one copy off the shelf.
		loans, err := checkout.CountByBook(db, id)
		if err != nil {
			return err
		}

		if int64(b.TotalBookCount-b.AvailableCount) < loans {
			return fail(ErrValidation, msgCountsBelowLoans)
		}

		rekey := b.BookISBNID != id
		if rekey {
			exists, err := book.Exists(db, b.BookISBNID)
			if err != nil {
				return err
			}

			if exists {
				return fail(ErrDuplicateKey, fmt.Sprintf(msgBookExistsFormat, b.BookISBNID))
			}
		}

		if err := book.Update(db, id, b); err != nil {
			if errors.Is(err, book.ErrBookExists) {
				return fail(ErrDuplicateKey, fmt.Sprintf(msgBookExistsFormat, b.BookISBNID))
			}

			return err
		}

		if rekey {
			if err := checkout.RekeyBook(db, id, b.BookISBNID); err != nil {
				return err
			}

			if _, err := s.recalc.RecomputeAll(db, s.clock()); err != nil {
				return err
			}
		}

		updated = b

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.advance(stageApplied)

	return updated, nil
}

// authorizeRowAction authorizes a row level action, whose column scope is always N/A.
func (s *Service) authorizeRowAction(ctx context.Context, caller Caller, resource, action string) error {
	if columnOr(caller, auth.ColumnNone) != auth.ColumnNone {
		return fail(ErrPermissionDenied, msgNotPermitted)
	}

	want := auth.Grant{Resource: resource, Action: action, Column: auth.ColumnNone}

	return s.authorize(ctx, nil, caller, want, msgNotPermitted)
}
