package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrEmptySelection  = errors.New("no items selected")
	ErrUnknownResource = errors.New("unknown resource")
	ErrNotSupported    = errors.New("operation not supported for resource")
	ErrConfirmRequired = errors.New("confirmation required")
)

// RemoteError is a non-2xx backend answer that has no sentinel mapping.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.Status)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// UserMessage returns the server message, or fallback when the server sent none.
func UserMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
