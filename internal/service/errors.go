package service

import (
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/activity-planner/internal/repository"
)

// Error kinds. Every *Error unwraps to exactly one of these, so handlers can
// classify with errors.Is while the message stays exactly as written.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCapacityReached    = errors.New("capacity reached")
)

// Error is a business-rule failure with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

var (
	errActivityNotFound    = notFound("Activity does not exist")
	errParticipantNotFound = notFound("Participant does not exist")
	errCapacityReached     = newError(ErrCapacityReached, "Cannot add participant, total capacity reached")
	errNotAuthorized       = newError(ErrUnauthorized, "You are not authorized to access this resource.")
	errIncorrectPassword   = newError(ErrInvalidCredentials, "Incorrect password")
	errEmailExists         = conflict("Email already exists")

	errCapacityBelowEnrollment = conflict("Capacity cannot be lower than the current enrollment")
)

// orNotFound replaces repository.ErrNotFound with notFoundErr and passes
// every other error through.
func orNotFound(err, notFoundErr error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundErr
	}
	return err
}
