package database

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a keyed lookup matches no row.
var ErrNotFound = errors.New("record not found")

// RemoteError wraps a failed store round trip.
type RemoteError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *RemoteError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("%s: %v (retryable)", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a RemoteError worth retrying.
func IsRetryable(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Retryable
}

// WrapErr maps driver errors onto ErrNotFound or RemoteError.
func WrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &RemoteError{
		Op:        op,
		Err:       errors.Wrap(err, op),
		Retryable: errors.Is(err, context.DeadlineExceeded),
	}
}
