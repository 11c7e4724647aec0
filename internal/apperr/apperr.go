// Package apperr provides the error kinds surfaced by the grievance core.
// Every kind is returned directly to callers; nothing in the core retries.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code identifies an error kind.
type Code string

const (
	CodeNotFound                Code = "NOT_FOUND"
	CodeInvalidTrigger          Code = "INVALID_TRIGGER"
	CodeInvalidStatusTransition Code = "INVALID_STATUS_TRANSITION"
	CodeValidation              Code = "VALIDATION_FAILED"
	CodeConflict                Code = "CONFLICT"
	CodeInternal                Code = "INTERNAL"
)

// Sentinels for errors.Is comparisons. Matching is by code only.
var (
	ErrNotFound                = &Error{Code: CodeNotFound}
	ErrInvalidTrigger          = &Error{Code: CodeInvalidTrigger}
	ErrInvalidStatusTransition = &Error{Code: CodeInvalidStatusTransition}
	ErrValidation              = &Error{Code: CodeValidation}
	ErrConflict                = &Error{Code: CodeConflict}
)

// Error is a structured application error.
type Error struct {
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"` // offending fields for validation failures
	Err     error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NotFound creates a not found error for the given resource.
func NotFound(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// InvalidTrigger creates an error for an unrecognized escalation trigger.
func InvalidTrigger(trigger string) *Error {
	return &Error{Code: CodeInvalidTrigger, Message: fmt.Sprintf("unknown escalation trigger %q", trigger)}
}

// InvalidStatusTransition creates an error for a transition the state machine rejects.
func InvalidStatusTransition(message string) *Error {
	return &Error{Code: CodeInvalidStatusTransition, Message: message}
}

// Validation creates a validation error listing the offending fields.
func Validation(fields ...string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid or missing fields: %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// Conflict creates an error for a lost optimistic-concurrency race.
func Conflict(resource, id string, revision int64) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf("%s %s was modified concurrently (expected revision %d)", resource, id, revision)}
}

// CodeOf returns the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// FieldsOf returns the offending fields carried by a validation error.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// HTTPStatus maps a code to an HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidTrigger, CodeValidation:
		return http.StatusBadRequest
	case CodeInvalidStatusTransition, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
