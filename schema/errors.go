package schema

import (
	"errors"
	"strings"
)

// ErrInvalidSchema indicates a malformed or cyclic type graph.
var ErrInvalidSchema = errors.New("fluentgen: invalid schema")

// Error represents a schema-wide error. It is fatal for a generation run.
type Error struct {
	Struct  string // Struct name (if applicable)
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("fluentgen: schema error")
	if e.Struct != "" {
		b.WriteString(" on struct ")
		b.WriteString(e.Struct)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewError creates a new schema Error.
func NewError(structName, fieldName, message string, cause error) *Error {
	return &Error{
		Struct:  structName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// IsError reports whether the error is a schema Error.
func IsError(err error) bool {
	var schemaErr *Error
	return errors.As(err, &schemaErr)
}
