package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a recoverable business error kind. Every code maps to a
// distinct caller recovery action, so handlers surface them individually
// instead of collapsing to a generic failure.
type Code string

const (
	CodeValidationFailed      Code = "VALIDATION_FAILED"
	CodeInvalidTransition     Code = "INVALID_TRANSITION"
	CodeCapacityExhausted     Code = "CAPACITY_EXHAUSTED"
	CodeDuplicateApplication  Code = "DUPLICATE_APPLICATION"
	CodeOfferNotPublished     Code = "OFFER_NOT_PUBLISHED"
	CodeIncompleteScores      Code = "INCOMPLETE_SCORES"
	CodeScoreOutOfRange       Code = "SCORE_OUT_OF_RANGE"
	CodeMissingFeedback       Code = "MISSING_FEEDBACK"
	CodeInternshipNotAccepted Code = "INTERNSHIP_NOT_ACCEPTED"
	CodeNotFound              Code = "NOT_FOUND"
	CodeBusy                  Code = "BUSY"
)

// Error is a typed business error returned synchronously to the caller.
// None of these represent crashes; only Busy is retry-eligible.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates a typed error
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a VALIDATION_FAILED error with per-field messages
func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidationFailed, Message: message, Fields: fields}
}

// InvalidTransition reports an illegal (from, to) state change
func InvalidTransition(from, to string) *Error {
	return Newf(CodeInvalidTransition, "invalid transition from %s to %s", from, to)
}

// NotFound reports a missing entity
func NotFound(entity string) *Error {
	return Newf(CodeNotFound, "%s not found", entity)
}

// Busy reports transient contention; safe to retry with backoff
func Busy(message string) *Error {
	return New(CodeBusy, message)
}

// From extracts a typed error from an error chain
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	if e, ok := From(err); ok {
		return e.Code == code
	}
	return false
}

// Retryable reports whether the caller may retry the same request unchanged
func Retryable(err error) bool {
	return Is(err, CodeBusy)
}
