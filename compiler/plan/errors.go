package plan

import (
	"errors"
	"strings"
)

// Sentinel errors for per-field compile failures.
var (
	// ErrUnsupportedFieldKind indicates a field type with no builder operation.
	ErrUnsupportedFieldKind = errors.New("fluentgen: unsupported field kind")
	// ErrInvalidDecision indicates a flattening policy returned an unusable decision.
	ErrInvalidDecision = errors.New("fluentgen: invalid flattening decision")
)

// FieldKindError reports a field whose type cannot be mapped to any builder
// operation. It is recoverable: only the struct owning the field is skipped.
type FieldKindError struct {
	Struct  string // Struct name
	Field   string // Field name
	Type    string // Type expression of the field
	Message string
}

// Error implements the error interface.
func (e *FieldKindError) Error() string {
	var b strings.Builder
	b.WriteString("fluentgen: unsupported field kind")
	if e.Struct != "" {
		b.WriteString(" on struct ")
		b.WriteString(e.Struct)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Type != "" {
		b.WriteString(" (type: ")
		b.WriteString(e.Type)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrUnsupportedFieldKind.
func (e *FieldKindError) Is(target error) bool {
	return target == ErrUnsupportedFieldKind
}

// NewFieldKindError creates a new FieldKindError.
func NewFieldKindError(structName, fieldName, typ, message string) *FieldKindError {
	return &FieldKindError{
		Struct:  structName,
		Field:   fieldName,
		Type:    typ,
		Message: message,
	}
}

// DecisionError reports a policy decision the resolver could not apply,
// such as a flattening rule naming an unknown sub-field.
type DecisionError struct {
	Struct  string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *DecisionError) Error() string {
	return "fluentgen: invalid flattening decision on struct " + e.Struct + " field " + e.Field + ": " + e.Message
}

// Is reports whether the target matches ErrInvalidDecision.
func (e *DecisionError) Is(target error) bool {
	return target == ErrInvalidDecision
}

// IsFieldKindError reports whether the error is a FieldKindError.
func IsFieldKindError(err error) bool {
	var kindErr *FieldKindError
	return errors.As(err, &kindErr)
}

// FieldErrors returns the per-field errors held by err, which may be a
// single error or a join of several.
func FieldErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var errs []error
		for _, e := range joined.Unwrap() {
			errs = append(errs, FieldErrors(e)...)
		}
		return errs
	}
	return []error{err}
}
