package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid         ErrorCode = "invalid"
	ErrorUnauthorized    ErrorCode = "unauthorized"
	ErrorForbidden       ErrorCode = "forbidden"
	ErrorNotFound        ErrorCode = "not_found"
	ErrorConflict        ErrorCode = "conflict"
	ErrorTooManyRequests ErrorCode = "too_many_requests"
	ErrorBadGateway      ErrorCode = "bad_gateway"
	ErrorUnavailable     ErrorCode = "unavailable"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error      { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewUnauthorizedError(msg string) error { return &ServiceError{Code: ErrorUnauthorized, Message: msg} }
func NewForbiddenError(msg string) error    { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error     { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error     { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewBadGatewayError(msg string) error   { return &ServiceError{Code: ErrorBadGateway, Message: msg} }
func NewUnavailableError(msg string) error  { return &ServiceError{Code: ErrorUnavailable, Message: msg} }

func NewTooManyRequestsError(msg string) error {
	return &ServiceError{Code: ErrorTooManyRequests, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ValidationError rejects a single bad request parameter, naming the field.
// It is always detected before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
