package services

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/yeremiapane/restaurant-ordering/database"
)

var (
	ErrNotFound          = database.ErrNotFound
	ErrOrderTerminal     = errors.New("order is in a terminal state")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("you don't have permission to perform this action")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCredential = errors.New("invalid email or password")
)

// RemoteError is a failed store or network round trip.
type RemoteError = database.RemoteError

// ValidationError is raised before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) FieldName() string { return e.Field }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
