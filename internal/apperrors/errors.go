// Package apperrors defines the typed error values returned by the service
// layer and their single mapping to HTTP status codes. Handlers never inspect
// error strings; they switch on the Code attached to the error.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of failure a service operation produced.
type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeAuth              Code = "AUTH"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflictState     Code = "CONFLICT_STATE"
	CodeConflictStock     Code = "CONFLICT_STOCK"
	CodeConflictEmptyCart Code = "CONFLICT_EMPTY_CART"
	CodeIssueNumber       Code = "INTERNAL_ISSUE_NUMBER"
	CodeRender            Code = "INTERNAL_RENDER"
	CodeIO                Code = "INTERNAL_IO"
	CodeMail              Code = "INTERNAL_MAIL"
	CodeInternal          Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeValidation:        http.StatusBadRequest,
	CodeAuth:              http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeConflictState:     http.StatusBadRequest,
	CodeConflictStock:     http.StatusBadRequest,
	CodeConflictEmptyCart: http.StatusBadRequest,
	CodeIssueNumber:       http.StatusInternalServerError,
	CodeRender:            http.StatusInternalServerError,
	CodeIO:                http.StatusInternalServerError,
	CodeMail:              http.StatusInternalServerError,
	CodeInternal:          http.StatusInternalServerError,
}

// Error is the error value produced by service operations.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code from err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus returns the HTTP status for a code. Unknown codes map to 500.
func HTTPStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
