package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base interface for all application errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// NotFoundError represents a resource that was not found or is not visible
// to the current user. The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Code() string {
	return "NOT_FOUND"
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents invalid request input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Code() string {
	return "VALIDATION_ERROR"
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RecordInvalidError is returned when a record fails its validations.
// Callers usually still hold the unsaved record and re-render it.
type RecordInvalidError struct {
	Resource string
	Errors   FieldErrors
}

func (e *RecordInvalidError) Error() string {
	return fmt.Sprintf("%s is invalid: %s", e.Resource, e.Errors.String())
}

func (e *RecordInvalidError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

func (e *RecordInvalidError) Code() string {
	return "RECORD_INVALID"
}

// NewRecordInvalidError creates a new RecordInvalidError
func NewRecordInvalidError(resource string, errs FieldErrors) *RecordInvalidError {
	return &RecordInvalidError{Resource: resource, Errors: errs}
}

// UnauthorizedError represents authentication failures
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unauthorized: %s", e.Reason)
	}
	return "unauthorized"
}

func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

func (e *UnauthorizedError) Code() string {
	return "UNAUTHORIZED"
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// InternalError represents unexpected server errors
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

func (e *InternalError) Code() string {
	return "INTERNAL_ERROR"
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// AsRecordInvalid returns the RecordInvalidError wrapped in err, if any
func AsRecordInvalid(err error) (*RecordInvalidError, bool) {
	var invalid *RecordInvalidError
	if errors.As(err, &invalid) {
		return invalid, true
	}
	return nil, false
}

// IsUnauthorized checks if an error is an UnauthorizedError
func IsUnauthorized(err error) bool {
	var unauthorized *UnauthorizedError
	return errors.As(err, &unauthorized)
}

// GetHTTPStatus returns the HTTP status code for an error
// Returns 500 if the error doesn't implement AppError
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	XMLName struct{}    `json:"-" xml:"error"`
	Code    string      `json:"code" xml:"code"`
	Message string      `json:"message" xml:"message"`
	Errors  FieldErrors `json:"errors,omitempty" xml:"-"`
}

// PublicMessage returns the text of err that may be shown to clients.
// Wrapping context and internal causes are left out.
func PublicMessage(err error) string {
	var unauthorized *UnauthorizedError
	if errors.As(err, &unauthorized) {
		if unauthorized.Reason != "" {
			return unauthorized.Reason
		}
		return http.StatusText(http.StatusUnauthorized)
	}
	var internal *InternalError
	if errors.As(err, &internal) {
		return internal.Message
	}
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Code:    GetErrorCode(err),
		Message: PublicMessage(err),
	}
	if invalid, ok := AsRecordInvalid(err); ok {
		resp.Errors = invalid.Errors
	}
	return resp
}
