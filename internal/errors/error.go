package errors

import "fmt"

// Category represents the area of the system an error originated in.
type Category string

const (
	// CategoryConfig covers htmldiff.json loading and validation.
	CategoryConfig Category = "config"

	// CategoryCLI covers command-line argument and file-path errors.
	CategoryCLI Category = "cli"

	// CategoryLiveReload covers the live-reload server's own setup
	// failures (bind address, watch paths), as distinct from diff
	// errors, which use internal/errcat instead.
	CategoryLiveReload Category = "livereload"
)

// VangoError is a structured error carrying a stable code, a category,
// a short message, and an optional fix suggestion.
type VangoError struct {
	// Code is a unique error identifier (e.g., "E001"), set only when
	// constructed via New from the registry.
	Code string

	// Category is the area of the system the error originated in.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, often filled in with the specific
	// value involved (a path, a port number).
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VangoError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *VangoError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VangoError) WithSuggestion(s string) *VangoError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *VangoError) WithDetail(d string) *VangoError {
	e.Detail = d
	return e
}

// Wrap attaches an underlying error.
func (e *VangoError) Wrap(err error) *VangoError {
	e.Wrapped = err
	return e
}

// New creates a VangoError from a registered error code.
func New(code string) *VangoError {
	template, ok := registry[code]
	if !ok {
		return &VangoError{Code: code, Message: "unknown error"}
	}
	return &VangoError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a VangoError with a formatted message and no code, for
// conditions that don't warrant a stable, documented identifier.
func Newf(category Category, format string, args ...any) *VangoError {
	return &VangoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a VangoError under code.
func FromError(err error, code string) *VangoError {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*VangoError); ok {
		return ve
	}
	return New(code).Wrap(err)
}
