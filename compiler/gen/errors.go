package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrUnsupportedTarget indicates a renderer met an operation it cannot express.
	ErrUnsupportedTarget = errors.New("fluentgen: unsupported target")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("fluentgen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("fluentgen: code generation failed")
)

// UnsupportedTargetError reports an operation a target renderer does not
// support. It is recoverable: only the (struct, target) pair is skipped.
type UnsupportedTargetError struct {
	Target    string // Renderer name
	Struct    string // Struct name
	Field     string // Field name (if applicable)
	Operation string // Operation kind
	Message   string
}

// Error implements the error interface.
func (e *UnsupportedTargetError) Error() string {
	var b strings.Builder
	b.WriteString("fluentgen: unsupported target")
	if e.Target != "" {
		b.WriteString(" ")
		b.WriteString(e.Target)
	}
	if e.Struct != "" {
		b.WriteString(" on struct ")
		b.WriteString(e.Struct)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Operation != "" {
		b.WriteString(" (operation: ")
		b.WriteString(e.Operation)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrUnsupportedTarget.
func (e *UnsupportedTargetError) Is(target error) bool {
	return target == ErrUnsupportedTarget
}

// NewUnsupportedTargetError creates a new UnsupportedTargetError.
func NewUnsupportedTargetError(target, structName, fieldName, operation, message string) *UnsupportedTargetError {
	return &UnsupportedTargetError{
		Target:    target,
		Struct:    structName,
		Field:     fieldName,
		Operation: operation,
		Message:   message,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("fluentgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("fluentgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "render", "format", "write", "manifest"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("fluentgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
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
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsUnsupportedTargetError reports whether the error is an UnsupportedTargetError.
func IsUnsupportedTargetError(err error) bool {
	var targetErr *UnsupportedTargetError
	return errors.As(err, &targetErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
