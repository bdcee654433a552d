// Package errors carries a machine-readable [Code] alongside error messages
// so the CLI and the HTTP API can report the same failure the same way.
//
// Validation in this package (see validation.go) returns *Error values with
// an INVALID_* code; lookups return a *_NOT_FOUND code. The server turns the
// code into a status with [HTTPStatus] and shows [UserMessage] to clients:
//
//	if err := errors.ValidateYear(y); err != nil {
//		return errors.Wrap(errors.ErrCodeInvalidYear, err, "state for %s", name)
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidYear   Code = "INVALID_YEAR"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidFamily Code = "INVALID_FAMILY"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFamilyNotFound Code = "FAMILY_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidYear:    http.StatusBadRequest,
	ErrCodeInvalidFormat:  http.StatusBadRequest,
	ErrCodeInvalidFamily:  http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeFamilyNotFound: http.StatusNotFound,
	ErrCodeFileNotFound:   http.StatusNotFound,
	ErrCodeRateLimited:    http.StatusTooManyRequests,
	ErrCodeUnsupported:    http.StatusMethodNotAllowed,
}

// Error is a coded failure. Message is safe to show to users; Cause, if
// any, is kept for errors.Is and errors.As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the coded message without its code prefix, or
// err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps code to a response status. Unknown codes are 500.
func HTTPStatus(code Code) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
