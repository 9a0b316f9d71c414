// Package apperr defines the closed error taxonomy shared by all
// components: validation errors, backend invocation errors and
// format-processing errors. Parse degradation is deliberately absent:
// it is absorbed into fallback responses, never surfaced as an error.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the recognized categories.
type Kind string

const (
	// KindValidation covers malformed or missing required input:
	// absent files, unsupported extensions, oversized files, missing
	// request fields. Never retried.
	KindValidation Kind = "validation"

	// KindBackend covers failures reported by the generation or
	// retrieval backend. The backend code and message are preserved.
	KindBackend Kind = "backend"

	// KindProcessing covers format-specific extraction failures
	// (corrupt spreadsheet, document or image).
	KindProcessing Kind = "processing"
)

// Error is a classified error. Code is populated for backend errors
// with the code the backend reported.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Backend builds a backend invocation error preserving the backend's
// code and message.
func Backend(code, message string, err error) *Error {
	return &Error{Kind: KindBackend, Code: code, Message: message, Err: err}
}

// Processing builds a processing error tied to a specific file or format.
func Processing(err error, format string, args ...any) *Error {
	return &Error{Kind: KindProcessing, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the Kind of err if it is (or wraps) a classified
// error. The second return is false for unclassified errors, which
// callers treat as internal.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
