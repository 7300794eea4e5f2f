package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/alexedwards/argon2id"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/user"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

var (
	librarianIDPattern = regexp.MustCompile(`^\d{4}$`)
	studentIDPattern   = regexp.MustCompile(`^\d{9}$`)
)

// ValidateAccountID checks id against the format of role: four digits for librarians,
// nine digits for students.
func ValidateAccountID(role uint, id string) error {
	switch role {
	case RoleLibrarian:
		if !librarianIDPattern.MatchString(id) {
			return ErrInvalidAccountID
		}
	case RoleStudent:
		if !studentIDPattern.MatchString(id) {
			return ErrInvalidAccountID
		}
	default:
		return ErrUnknownRole
	}

	return nil
}

// LocalProvider handles local database authentication.
type LocalProvider struct {
	params *argon2id.Params
}

// NewLocalProvider creates a new local authentication provider.
// A nil params uses argon2id.DefaultParams.
func NewLocalProvider(params *argon2id.Params) *LocalProvider {
	if params == nil {
		params = argon2id.DefaultParams
	}

	return &LocalProvider{params: params}
}

// Authenticate looks up the account userID on db and verifies password.
// The account activation flag is not checked here.
func (p *LocalProvider) Authenticate(db *gorm.DB, userID, password string) (*models.User, error) {
	u, err := user.Get(db, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return u, nil
}

// Register creates a new account. Librarian accounts start active, student accounts
// wait for a librarian to activate them.
func (p *LocalProvider) Register(db *gorm.DB, role uint, userID, userName, password string) (*models.User, error) {
	if err := ValidateAccountID(role, userID); err != nil {
		return nil, err
	}

	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := argon2id.CreateHash(password, p.params)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		RoleID:       role,
		UserID:       userID,
		UserName:     userName,
		PasswordHash: hash,
		Active:       role == RoleLibrarian,
	}

	if err := user.Create(db, u); err != nil {
		return nil, err
	}

	return u, nil
}
