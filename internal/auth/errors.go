package auth

import "errors"

var (
	// ErrDBNil is returned when the ledger or provider is used without a database.
	ErrDBNil = errors.New("database connection is nil")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when no account exists for the given id.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnknownRole is returned for role ids outside the fixed role set.
	ErrUnknownRole = errors.New("unknown role")

	// ErrInvalidAccountID is returned when an account id does not match the format of its role.
	ErrInvalidAccountID = errors.New("invalid account id for role")

	// ErrEmptyPassword is returned when registering an account without a password.
	ErrEmptyPassword = errors.New("password can not be empty")
)
