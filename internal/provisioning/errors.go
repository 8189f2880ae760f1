package provisioning

import (
	"errors"
	"fmt"
)

// Kind classifies a provisioning failure.
type Kind string

const (
	// KindValidation means the configuration is inconsistent or infeasible.
	KindValidation Kind = "validation"
	// KindResource means a filesystem or OS call failed.
	KindResource Kind = "resource"
	// KindService means the server failed to reach the running state.
	KindService Kind = "service"
)

// FieldError is a failure attributed to one configuration field.
type FieldError struct {
	Field   string
	Message string
	Kind    Kind
}

// NewFieldError creates a validation error for field.
func NewFieldError(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...), Kind: KindValidation}
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error wraps an underlying failure with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is/As to reach the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches kind to err. A nil err stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Resourcef formats a resource error.
func Resourcef(format string, args ...any) error {
	return &Error{Kind: KindResource, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind carried by err, or "" when none is attached.
func KindOf(err error) Kind {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Describe splits err into the attributed field, if any, and the cause text
// without phase wrapping.
func Describe(err error) (field, message string) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field, fe.Message
	}
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return "", e.Err.Error()
	}
	return "", err.Error()
}
