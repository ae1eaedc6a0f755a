package domain

import "errors"

// Error kinds. Every failure leaving the account service unwraps to one of
// these, or is treated as internal.
var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrUserNotFound    = errors.New("user not found")
)

// Error carries a user-facing message and unwraps to its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrMissingData     = NewError(ErrValidation, "please enter all data")
	ErrInvalidEmail    = NewError(ErrValidation, "Invalid email")
	ErrEmailExists     = NewError(ErrConflict, "User already exists with the given email")
	ErrEmailOwned      = NewError(ErrConflict, "Cannot update with a different email")
	ErrUnknownEmail    = NewError(ErrUserNotFound, "Incorrect email or password")
	ErrBadCredentials  = NewError(ErrValidation, "Incorrect email or password")
	ErrWrongPassword   = NewError(ErrValidation, "Incorrect token or password")
	ErrNoSuchUser      = NewError(ErrUserNotFound, "User not found")
	ErrEmptyPatch      = NewError(ErrValidation, "Please enter all data")
	ErrPasswordTooLong = NewError(ErrValidation, "Password must be at most 72 bytes")
	ErrInvalidToken    = NewError(ErrUnauthenticated, "Invalid token")
	ErrMissingToken    = NewError(ErrForbidden, "Invalid token")
	ErrTokenIDMismatch = NewError(ErrUnauthenticated, "Invalid token or id")
	ErrTokenPassword   = NewError(ErrUnauthenticated, "Invalid token or password")
)

// Message returns the user-facing message of err when it is a domain error.
func Message(err error) (string, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Message, true
	}
	return "", false
}
