package orchestrator

import (
	"github.com/pkg/errors"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/tx"
)

// Error kinds. Every error returned by Service matches exactly one of them with errors.Is.
var (
	// ErrValidation means the request is malformed or misses a field.
	ErrValidation = errors.New("validation error")
	// ErrDuplicateKey means a record with the same key already exists.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnavailable means the requested book can not be lent right now.
	ErrUnavailable = errors.New("unavailable")
	// ErrPermissionDenied means the caller lacks a grant or the account may not borrow.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound means the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the request clashes with the current state.
	ErrConflict = errors.New("conflict")
	// ErrAuthentication means the credential did not verify.
	ErrAuthentication = errors.New("authentication failure")
	// ErrTransient means a storage failure. The request had no effect and may be retried.
	ErrTransient = errors.New("transient storage error")
	// ErrInvariant means stored state broke an invariant. It indicates a bug.
	ErrInvariant = errors.New("invariant violation")
)

// InternalMessage is the only text clients see for transient and invariant errors.
const InternalMessage = "Internal server error. Please try again later."

// Error is a classified request failure. Message is safe to show to clients;
// Cause is for logs only.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

// Internal reports whether the error must be hidden from clients.
func (e *Error) Internal() bool {
	return e.Kind == ErrTransient || e.Kind == ErrInvariant
}

func fail(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func failWith(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// classify turns any error into an *Error. Unclassified errors are storage failures.
func classify(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, tx.ErrTimeout) {
		return failWith(ErrTransient, "store call timed out", err)
	}

	return failWith(ErrTransient, InternalMessage, err)
}

// Kind returns the kind of err, or nil when err was not produced by Service.
func Kind(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}

	return e.Kind
}

// Message returns the client safe text of err.
func Message(err error) string {
	e := classify(err)
	if e == nil {
		return ""
	}

	if e.Internal() {
		return InternalMessage
	}

	return e.Message
}
