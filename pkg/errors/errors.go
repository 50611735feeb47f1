// Package errors gives diaconv failures a stable code next to their
// message.
//
// The CLI prints the message. The HTTP service maps the code to a status
// and returns both in the error body. Problems that do
// not stop a conversion, such as an unknown object type, are gathered in
// [Diagnostics] and reported with the result instead.
//
//	err := errors.New(errors.ErrCodeUnsupportedDocument, "root element is <%s>", tag)
//	err = errors.Wrap(errors.ErrCodeInvalidFormat, gzErr, "decompress %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) { ... }
//
// Files that also need the standard package import it as stderrors.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class. Codes appear in service
// responses, so their values never change.
type Code string

const (
	// Requests and configuration.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Document content.
	ErrCodeUnsupportedDocument Code = "UNSUPPORTED_DOCUMENT"
	ErrCodeMalformedGeometry   Code = "MALFORMED_GEOMETRY"
	ErrCodeUnknownElement      Code = "UNKNOWN_ELEMENT"

	// Lookups.
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"

	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a failure with a [Code]. Message is shown to users; Cause,
// when set, is the lower-level error that triggered it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with code and a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// as finds the outermost *Error in the chain of err.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in the chain of err carries
// code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in the chain of err,
// or "" when there is none.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code or
// cause, and err.Error() for any other error.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// Diagnostics collects non-fatal problems found while converting one
// document. The zero value is ready to use; it is not safe for concurrent
// use.
type Diagnostics struct {
	items []*Error
}

// Add records a problem and returns it.
func (d *Diagnostics) Add(code Code, format string, args ...any) *Error {
	e := New(code, format, args...)
	d.items = append(d.items, e)
	return e
}

// Len returns the number of recorded problems.
func (d *Diagnostics) Len() int { return len(d.items) }

// Items returns the recorded problems in order.
func (d *Diagnostics) Items() []*Error {
	return append([]*Error(nil), d.items...)
}

// Count returns how many recorded problems carry code.
func (d *Diagnostics) Count(code Code) int {
	n := 0
	for _, e := range d.items {
		if e.Code == code {
			n++
		}
	}
	return n
}
