// Package apperr provides coded application errors that map onto HTTP statuses.
//
// Services return typed errors; handlers hand them to the response package which
// picks the status from the code:
//
//	if text == "" {
//	    return apperr.Validation(`request body must include "text" (string)`)
//	}
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeConfig       Code = "CONFIG"
	CodeUpstream     Code = "UPSTREAM"
	CodeLLMResponse  Code = "LLM_RESPONSE"
	CodeInternal     Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status for the code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a code, message and optional details.
type Error struct {
	Code    Code
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithDetails returns a copy carrying details for the response payload.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

var (
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnauthorized = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict     = &Error{Code: CodeConflict, Message: "conflict"}
	ErrConfig       = &Error{Code: CodeConfig, Message: "configuration error"}
	ErrUpstream     = &Error{Code: CodeUpstream, Message: "upstream error"}
	ErrLLMResponse  = &Error{Code: CodeLLMResponse, Message: "invalid LLM response"}
	ErrInternal     = &Error{Code: CodeInternal, Message: "internal error"}
)

func Validation(msg string) *Error   { return &Error{Code: CodeValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Code: CodeUnauthorized, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Code: CodeConflict, Message: msg} }
func Config(msg string) *Error       { return &Error{Code: CodeConfig, Message: msg} }
func LLMResponse(msg string) *Error  { return &Error{Code: CodeLLMResponse, Message: msg} }
func Internal(msg string) *Error     { return &Error{Code: CodeInternal, Message: msg} }

// Upstream wraps a collaborator failure, naming the step that failed.
func Upstream(step string, err error) *Error {
	return &Error{Code: CodeUpstream, Message: step, cause: err}
}
