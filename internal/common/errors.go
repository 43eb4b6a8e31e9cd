// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
//
// Every validation, lookup and conflict failure wraps exactly one of these.
// Callers show the message and return to where they were.
var (
	// Input errors.
	ErrInvalidInput = errors.New("invalid input")

	// Lookup errors.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("invalid username or password")

	// Conflict errors.
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrInUse          = errors.New("still referenced")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Invalidf builds an ErrInvalidInput with a formatted message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// IsUserFacing reports whether err is one of the input, lookup or conflict
// errors. Anything else (file system failures, bugs) should abort the caller.
func IsUserFacing(err error) bool {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return true
	}
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrDuplicateEntry) ||
		errors.Is(err, ErrInUse)
}
