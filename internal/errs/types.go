// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (FieldError for validation detail, HTTPError for API responses)
// so the client receives a consistent error body and the server keeps
// enough detail for logging.
package errs

import "strings"

// FieldError represents a field-level validation error.
//
// Field errors are logged server-side; the wire body stays generic, so
// this type never reaches the client.
type FieldError struct {
	// Field is the field name the error relates to (e.g. "rating").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// Only Message is serialized, under the "error" key; the rest of the
// struct exists for status mapping and structured logging. The resulting
// wire shape is exactly:
//
//	{ "error": "Bookmark not found" }
type HTTPError struct {
	// Code is a machine-friendly error code (e.g. "NOT_FOUND"), used in logs.
	Code string `json:"-"`

	// Message is the client-facing message.
	Message string `json:"error"`

	// Status is the HTTP status code to respond with.
	Status int `json:"-"`

	// Override indicates the message is safe to show verbatim in a UI.
	Override bool `json:"-"`

	// Errors holds field-level validation errors for server-side logging.
	Errors []FieldError `json:"-"`
}

// Error makes *HTTPError satisfy the built-in error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also a *HTTPError, so
// errors.Is(err, &HTTPError{}) can detect already-shaped errors.
// It matches on type only, not on Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into
// UPPER_CASE_WITH_UNDERSCORES format, e.g. "Bad Request" -> "BAD_REQUEST".
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
