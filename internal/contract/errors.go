package contract

import (
	"errors"
	"fmt"
)

// UserMessage is shown to users for every failed submission.
const UserMessage = "Error occurred"

// ErrRequestFailed is the sentinel wrapped by every prediction request failure.
var ErrRequestFailed = errors.New("request failed")

// FailureReason classifies why a prediction request failed.
type FailureReason string

// Failure reasons.
const (
	ReasonTransport    FailureReason = "transport"     // connection, timeout or cancellation
	ReasonStatus       FailureReason = "status"        // non-2xx response
	ReasonDecode       FailureReason = "decode"        // body is not the expected JSON
	ReasonEmpty        FailureReason = "empty"         // 2xx response with no usable content
	ReasonUnconfigured FailureReason = "unconfigured"  // endpoint URL not set
	ReasonInvalidInput FailureReason = "invalid_input" // rejected before sending
)

// RequestError describes a failed prediction request.
type RequestError struct {
	Reason     FailureReason
	StatusCode int
	Err        error
}

// NewRequestError wraps err with a failure reason.
func NewRequestError(reason FailureReason, err error) *RequestError {
	return &RequestError{Reason: reason, Err: err}
}

// Error implements error.
func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s (%s, HTTP %d): %v", ErrRequestFailed, e.Reason, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (%s, HTTP %d)", ErrRequestFailed, e.Reason, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s (%s): %v", ErrRequestFailed, e.Reason, e.Err)
	default:
		return fmt.Sprintf("%s (%s)", ErrRequestFailed, e.Reason)
	}
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

// ReasonOf returns the failure reason carried by err, or "" when err is not a RequestError.
func ReasonOf(err error) FailureReason {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Reason
	}
	return ""
}

// Result holds either a parsed response or the error that replaced it.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err returns a failed result.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = ErrRequestFailed
	}
	return Result[T]{err: err}
}

// Capture converts a (value, error) pair into a Result.
func Capture[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Value returns the value and whether it is present.
func (r Result[T]) Value() (T, bool) { return r.value, r.err == nil }

// Error returns the failure, or nil.
func (r Result[T]) Error() error { return r.err }

// Reason returns the failure reason, or "" on success.
func (r Result[T]) Reason() FailureReason {
	if r.err == nil {
		return ""
	}
	if reason := ReasonOf(r.err); reason != "" {
		return reason
	}
	return ReasonTransport
}

// Unwrap returns the pair form.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }
