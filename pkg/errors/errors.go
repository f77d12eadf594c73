package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token not yet valid")
	ErrTokenNotFound        = fmt.Errorf("token not found")

	// Authorization
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("invalid authorization header format")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrAccountDisabled    = fmt.Errorf("account is disabled")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")

	ErrActorNotFoundInContext = fmt.Errorf("actor not found in request context")

	// Domain
	ErrNotFound          = fmt.Errorf("record not found")
	ErrAlreadyExists     = fmt.Errorf("record already exists")
	ErrValidation        = fmt.Errorf("validation failed")
	ErrInvalidTransition = fmt.Errorf("invalid transition")
	ErrStorage           = fmt.Errorf("storage error")
	ErrBadRequest        = fmt.Errorf("bad request")
)

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Is(target error) bool { return target == ErrValidation }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError is a business rule violation on a status change.
// Reason is the short machine-oriented text, Message is shown to users.
type InvalidTransitionError struct {
	Reason  string
	Message string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s", e.Reason)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func NewInvalidTransitionError(reason, message string) error {
	return &InvalidTransitionError{Reason: reason, Message: message}
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError returns nil for a nil err, and leaves domain errors
// (not found, conflicts) untouched so that callers can still match them.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
