package orchestrator

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/auth"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/circulation"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/checkout"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/role"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/user"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

const (
	msgNotPermitted       = "You are not permitted to perform this action!"
	msgMissingFields      = "All fields are necessary"
	msgInvalidRole        = "Role_id must be either 1 or 2"
	msgLibrarianIDFormat  = "Librarian user_id must be exactly 4 digits."
	msgStudentIDFormat    = "Student user_id must be exactly 9 digits."
	msgInvalidPassword    = "Invalid Password. Please Try Again!"
	msgUserNameTaken      = "Username is taken! Please enter a new username."
	msgMissingStatus      = "Missing 'new_active_status' field in request body"
	msgActivateOverLimit  = "This user has too many overdue books to be activated."
	msgRoleMismatch       = "This account is registered under a different role."
	msgUserNotFoundFormat = "User %s not found."
)

// ListRoles returns the fixed role set.
func (s *Service) ListRoles(ctx context.Context) ([]models.Role, error) {
	r, ctx := begin(ctx, opListRoles)

	var roles []models.Role

	err := s.runner.Query(ctx, func(db *gorm.DB) error {
		var err error
		roles, err = role.List(db)

		return err
	})

	return roles, r.finish(err)
}

// ListUserNames returns every display name.
func (s *Service) ListUserNames(ctx context.Context) ([]string, error) {
	r, ctx := begin(ctx, opListUserNames)

	var names []string

	err := s.runner.Query(ctx, func(db *gorm.DB) error {
		var err error
		names, err = user.Names(db)

		return err
	})

	return names, r.finish(err)
}

// ListUsers refreshes overdue lists and returns the users matching status
// (user.StatusExcessiveOverdue, user.StatusNeedsApproval, or anything else for all).
func (s *Service) ListUsers(ctx context.Context, status string) ([]models.User, error) {
	r, ctx := begin(ctx, opListUsers)

	users, err := s.listUsers(ctx, r, status)

	return users, r.finish(err)
}

func (s *Service) listUsers(ctx context.Context, r *request, status string) ([]models.User, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	var users []models.User

	err := s.runner.Query(ctx, func(db *gorm.DB) error {
		var err error
		users, err = user.List(db)

		return err
	})
	if err != nil {
		return nil, err
	}

	r.advance(stageApplied)

	return user.Filter(users, status, s.policy.MaxOverdueBooks), nil
}

// UpdateActiveStatus sets the activation flag of userID. Only callers holding
// (users, UPDATE, is_active_account) may do so. An account over the overdue limit
// can not be activated.
func (s *Service) UpdateActiveStatus(ctx context.Context, caller Caller, userID string, active *bool) error {
	r, ctx := begin(ctx, opUpdateActiveStatus)

	return r.finish(s.updateActiveStatus(ctx, r, caller, userID, active))
}

func (s *Service) updateActiveStatus(ctx context.Context, r *request, caller Caller, userID string, active *bool) error {
	if active == nil {
		return fail(ErrValidation, msgMissingStatus)
	}

	if userID == "" {
		return fail(ErrValidation, msgMissingFields)
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}

	want := auth.Grant{Resource: auth.ResourceUsers, Action: auth.ActionUpdate, Column: auth.ColumnActiveStatus}
	if columnOr(caller, auth.ColumnActiveStatus) != auth.ColumnActiveStatus {
		return fail(ErrPermissionDenied, msgNotPermitted)
	}

	if err := s.authorize(ctx, nil, caller, want, msgNotPermitted); err != nil {
		return err
	}

	r.advance(stageAuthorized)

	err := s.runner.Run(ctx, func(db *gorm.DB) error {
		u, err := user.GetForUpdate(db, userID)
		if errors.Is(err, user.ErrUserNotFound) {
			return fail(ErrNotFound, fmt.Sprintf(msgUserNotFoundFormat, userID))
		}

		if err != nil {
			return err
		}

		if *active && s.policy.ExceedsLimit(u) {
			return fail(ErrConflict, msgActivateOverLimit)
		}

		return user.SetActive(db, userID, *active)
	})
	if err != nil {
		return err
	}

	r.advance(stageApplied)

	return nil
}

// SignUpOrLogin logs an existing account in, or registers a new one.
// Login succeeds only for active accounts; it returns the ids of the books held.
// Registration creates librarians active and students inactive.
func (s *Service) SignUpOrLogin(ctx context.Context, req SignUpRequest) (*Session, error) {
	r, ctx := begin(ctx, opSignUpOrLogin)

	sess, err := s.signUpOrLogin(ctx, r, req)

	return sess, r.finish(err)
}

func (s *Service) signUpOrLogin(ctx context.Context, r *request, req SignUpRequest) (*Session, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, failWith(ErrValidation, msgMissingFields, err)
	}

	switch err := auth.ValidateAccountID(req.Role, req.UserID); {
	case errors.Is(err, auth.ErrUnknownRole):
		return nil, fail(ErrValidation, msgInvalidRole)
	case errors.Is(err, auth.ErrInvalidAccountID) && req.Role == auth.RoleLibrarian:
		return nil, fail(ErrValidation, msgLibrarianIDFormat)
	case errors.Is(err, auth.ErrInvalidAccountID):
		return nil, fail(ErrValidation, msgStudentIDFormat)
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	var sess *Session

	err := s.runner.Run(ctx, func(db *gorm.DB) error {
		_, err := user.Get(db, req.UserID)

		switch {
		case err == nil:
			sess, err = s.login(db, req)
		case errors.Is(err, user.ErrUserNotFound):
			sess, err = s.signUp(db, req)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	r.advance(stageApplied)

	return sess, nil
}

func (s *Service) login(db *gorm.DB, req SignUpRequest) (*Session, error) {
	u, err := s.local.Authenticate(db, req.UserID, req.Password)
	if errors.Is(err, auth.ErrInvalidPassword) {
		return nil, fail(ErrAuthentication, msgInvalidPassword)
	}

	if err != nil {
		return nil, err
	}

	if u.RoleID != req.Role {
		return nil, fail(ErrAuthentication, msgRoleMismatch)
	}

	if !u.Active {
		reason := circulation.PendingActivation
		if u.OverdueCount() > 0 {
			reason = circulation.Deactivated
		}

		return nil, fail(ErrPermissionDenied, reason.Message())
	}

	ids, err := checkout.BookIDs(db, u.UserID)
	if err != nil {
		return nil, err
	}

	return &Session{User: u, Checkouts: ids}, nil
}

func (s *Service) signUp(db *gorm.DB, req SignUpRequest) (*Session, error) {
	u, err := s.local.Register(db, req.Role, req.UserID, req.UserName, req.Password)

	switch {
	case errors.Is(err, user.ErrUserNameTaken), errors.Is(err, user.ErrUserExists):
		return nil, fail(ErrConflict, msgUserNameTaken)
	case err != nil:
		return nil, err
	}

	return &Session{Created: true, User: u, Checkouts: []string{}}, nil
}
