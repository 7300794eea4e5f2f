package orchestrator

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/auth"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/circulation"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/book"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/checkout"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/user"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

const (
	msgMissingBookID     = "Missing 'book_isbn_id' in request body"
	msgMissingUserID     = "Missing user_id"
	msgBookNotAvailable  = "Book not available"
	msgBookNotFound      = "Book not found"
	msgAlreadyBorrowed   = "You have already borrowed this book."
	msgNoSuchCheckout    = "You have not borrowed this book."
	msgUnknownBorrower   = "User not found."
	msgCounterOutOfRange = "available copy counter out of range"
)

// Borrow lends one copy of bookID to userID.
// The activation gate runs before the permission check. The gate is checked again
// under the row locks, then the checkout is recorded and the counter decremented in
// the same transaction.
func (s *Service) Borrow(ctx context.Context, caller Caller, userID, bookID string) (*models.Book, error) {
	r, ctx := begin(ctx, opBorrow)

	b, err := s.borrow(ctx, r, caller, userID, bookID)

	return b, r.finish(err)
}

func (s *Service) borrow(ctx context.Context, r *request, caller Caller, userID, bookID string) (*models.Book, error) {
	if err := lendingKey(userID, bookID); err != nil {
		return nil, err
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	var u *models.User

	err := s.runner.Query(ctx, func(db *gorm.DB) error {
		var err error
		u, err = user.Get(db, userID)

		return err
	})
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, fail(ErrNotFound, msgUnknownBorrower)
	}

	if err != nil {
		return nil, err
	}

	if reason := s.gate.CanBorrow(u); reason != circulation.Allowed {
		return nil, fail(ErrPermissionDenied, reason.Message())
	}

	r.advance(stageGateChecked)

	if err := s.authorizeRowAction(ctx, caller, auth.ResourceCheckouts, auth.ActionInsert); err != nil {
		return nil, err
	}

	r.advance(stageAuthorized)

	var out *models.Book

	err = s.runner.Run(ctx, func(db *gorm.DB) error {
		now := s.clock()

		// Book rows are locked before user rows, as in Return and the rekeying update.
		b, err := book.GetForUpdate(db, bookID)
		missing := errors.Is(err, book.ErrBookNotFound)

		if err != nil && !missing {
			return err
		}

		u, err := user.GetForUpdate(db, userID)
		if errors.Is(err, user.ErrUserNotFound) {
			return fail(ErrNotFound, msgUnknownBorrower)
		}

		if err != nil {
			return err
		}

		if u.BooksOverdue, err = s.recalc.RecomputeUser(db, userID, now); err != nil {
			return err
		}

		if reason := s.gate.CanBorrow(u); reason != circulation.Allowed {
			return fail(ErrPermissionDenied, reason.Message())
		}

		if missing {
			return fail(ErrUnavailable, msgBookNotFound)
		}

		if b.AvailableCount <= 0 {
			return fail(ErrUnavailable, msgBookNotAvailable)
		}

		if _, err := checkout.Create(db, userID, bookID, now); err != nil {
			if errors.Is(err, checkout.ErrCheckoutExists) {
				return fail(ErrConflict, msgAlreadyBorrowed)
			}

			return err
		}

		if err := book.TakeCopy(db, bookID); err != nil {
			if errors.Is(err, book.ErrNoCopyAvailable) {
				return fail(ErrUnavailable, msgBookNotAvailable)
			}

			return err
		}

		out, err = book.Get(db, bookID)

		return err
	})
	if err != nil {
		return nil, err
	}

	r.advance(stageApplied)

	return out, nil
}

// Return takes back the copy of bookID held by userID. The book must exist and the
// checkout must exist; the checkout is removed, the counter incremented and the
// borrower's overdue list rebuilt in the same transaction.
func (s *Service) Return(ctx context.Context, caller Caller, userID, bookID string) (*models.Book, error) {
	r, ctx := begin(ctx, opReturn)

	b, err := s.giveBack(ctx, r, caller, userID, bookID)

	return b, r.finish(err)
}

func (s *Service) giveBack(ctx context.Context, r *request, caller Caller, userID, bookID string) (*models.Book, error) {
	if err := lendingKey(userID, bookID); err != nil {
		return nil, err
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	if err := s.authorizeRowAction(ctx, caller, auth.ResourceCheckouts, auth.ActionDelete); err != nil {
		return nil, err
	}

	r.advance(stageAuthorized)

	var out *models.Book

	err := s.runner.Run(ctx, func(db *gorm.DB) error {
		if _, err := book.GetForUpdate(db, bookID); err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				return fail(ErrValidation, msgBookNotFound)
			}

			return err
		}

		if err := checkout.Delete(db, userID, bookID); err != nil {
			if errors.Is(err, checkout.ErrCheckoutNotFound) {
				return fail(ErrNotFound, msgNoSuchCheckout)
			}

			return err
		}

		if err := book.ReturnCopy(db, bookID); err != nil {
			if errors.Is(err, book.ErrAllCopiesShelved) {
				return failWith(ErrInvariant, msgCounterOutOfRange, err)
			}

			return err
		}

		if _, err := s.recalc.RecomputeUser(db, userID, s.clock()); err != nil {
			return err
		}

		var err error
		out, err = book.Get(db, bookID)

		return err
	})
	if err != nil {
		return nil, err
	}

	r.advance(stageApplied)

	return out, nil
}

func lendingKey(userID, bookID string) error {
	if userID == "" {
		return fail(ErrValidation, msgMissingUserID)
	}

	if bookID == "" {
		return fail(ErrValidation, msgMissingBookID)
	}

	return nil
}
