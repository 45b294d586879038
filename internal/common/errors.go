// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Record errors.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrUnknownRecordType  = errors.New("unknown record type")
	ErrNegativeAmount     = errors.New("negative amount")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrDuplicateRecord    = errors.New("duplicate record id")

	// Snapshot errors.
	ErrInvalidBackupFormat = errors.New("invalid backup format")
	ErrPersistenceFailure  = errors.New("persistence failure")
)

// PersistenceError reports a failed snapshot read or write. The
// in-memory store stays valid and usable after one; callers decide
// whether to surface the failure or retry.
type PersistenceError struct {
	Err  error
	Op   string // "load" or "save"
	Path string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is matches PersistenceError against the ErrPersistenceFailure sentinel.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceFailure
}

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
