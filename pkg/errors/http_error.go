package errors

import (
	"errors"
	"net/http"
)

type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func (e *HttpError) WithContext(key string, value interface{}) *HttpError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// HTTPStatus maps an error kind to the status code returned at the boundary.
func HTTPStatus(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenNotYetValid),
		errors.Is(err, ErrInvalidSigningMethod),
		errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrActorNotFoundInContext):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage is the text shown to API clients for err. Storage and unknown
// failures get a generic message.
func UserMessage(err error) string {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	var transitionErr *InvalidTransitionError
	if errors.As(err, &transitionErr) && transitionErr.Message != "" {
		return transitionErr.Message
	}
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	switch HTTPStatus(err) {
	case http.StatusUnauthorized:
		if errors.Is(err, ErrInvalidCredentials) {
			return "Invalid email or password"
		}
		return "Unauthorized"
	case http.StatusForbidden:
		if errors.Is(err, ErrAccountDisabled) {
			return "Account is disabled"
		}
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusConflict:
		return "Already exists"
	case http.StatusBadRequest:
		return "Invalid request"
	}
	return "Internal server error"
}
