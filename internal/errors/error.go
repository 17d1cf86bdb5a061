package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryCompile Category = "compile"
	CategoryConfig  Category = "config"
	CategorySource  Category = "source"
	CategoryCLI     Category = "cli"
)

// Error is a structured error with a registered code, the name or path it
// concerns, and a hint for fixing it.
type Error struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, compile, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Target is the property path, directive or file the error concerns.
	Target string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Target != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Target)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithTarget records the path, name or file the error concerns.
func (e *Error) WithTarget(target string) *Error {
	e.Target = target
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*Error); ok {
		return ve
	}
	return New(code).Wrap(err)
}
