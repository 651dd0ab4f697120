package session

import (
	"errors"

	"sherpa/internal/core/timekeeper"
)

var (
	// ErrInvalidTimerInput marks a malformed start command.
	ErrInvalidTimerInput = errors.New("invalid timer input")
	// ErrIllegalTimerTransition marks a timer command the current state forbids.
	ErrIllegalTimerTransition = timekeeper.ErrIllegalTransition
	// ErrDisallowedWhileTimerActive marks a task command blocked by a live timer.
	ErrDisallowedWhileTimerActive = errors.New("disallowed while timer is active")
	// ErrInvalidTaskInput marks a task command with a bad task number.
	ErrInvalidTaskInput = errors.New("invalid task input")
)

// Error carries the sentence shown to the user along with its kind.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) Unwrap() []error {
	if err.Cause == nil {
		return []error{err.Kind}
	}
	return []error{err.Kind, err.Cause}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
