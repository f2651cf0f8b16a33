package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTooLarge     = errors.New("payload too large")
)

type AppError struct {
	Err     error             // actual error
	Message string            // Human-readable error message
	Field   string            // Optional: field causing the error
	Details map[string]string // Optional: per-field messages for validation errors
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Details: map[string]string{field: message},
	}
}

// Invalid bundles several field errors into one validation error.
// The message names the offending fields in sorted order so it is stable.
func Invalid(details map[string]string) *AppError {
	fields := make([]string, 0, len(details))
	for f := range details {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	e := &AppError{
		Err:     ErrValidation,
		Message: "invalid fields: " + strings.Join(fields, ", "),
		Details: details,
	}
	if len(fields) == 1 {
		e.Field = fields[0]
		e.Message = details[fields[0]]
	}
	return e
}

// Conflict reports a write that clashes with an existing row. Duplicate
// and InUse narrow it to the two ways that happens.
func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Duplicate reports a uniqueness violation on a single field.
func Duplicate(resource, field, value string) *AppError {
	e := Conflict(resource, value)
	e.Message = fmt.Sprintf("%s with %s %s already exists", resource, field, value)
	e.Field = field
	return e
}

// InUse reports that a row cannot be removed while other rows reference it.
func InUse(resource, id string, references int64) *AppError {
	e := Conflict(resource, id)
	e.Message = fmt.Sprintf("%s %s is still referenced by %d record(s)", resource, id, references)
	return e
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for missing or rejected credentials.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// TooLarge reports a request body over the accepted size.
func TooLarge(limit int64) *AppError {
	return &AppError{
		Err:     ErrTooLarge,
		Message: fmt.Sprintf("request body must not exceed %d bytes", limit),
	}
}
