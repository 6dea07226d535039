package fetchengo

import (
	"errors"
	"fmt"
)

// Reserved status codes of the normalized error contract. Upstream HTTP
// statuses pass through unchanged; these two never collide with them.
const (
	// StatusAborted is reported when a call was cancelled, whether by an
	// explicit Abort or by the timeout timer.
	StatusAborted = 499
	// StatusUnknown is reported for failures that are neither an HTTP error
	// response nor a cancellation: network failures, unparseable bodies,
	// panicking hooks.
	StatusUnknown = 999
)

// Sentinel cancellation causes. They are installed as context cancel causes
// so the executor can tell an abort from an ordinary transport failure.
var (
	// ErrAborted is the cancel cause for caller-initiated aborts.
	ErrAborted = errors.New("fetchengo: request aborted")

	// ErrTimedOut is the cancel cause for timer-initiated aborts.
	ErrTimedOut = errors.New("fetchengo: request timed out")
)

// RequestError is the single error shape every failed call collapses into.
// It is passed to the OnError hook and to the fetch-error / fetch-abort
// event before rejecting the Result.
type RequestError struct {
	// Status is the upstream HTTP status, or StatusAborted / StatusUnknown.
	Status int
	// Data is the parsed error body, or a best-effort stringified cause.
	Data any
	// Method is the HTTP method of the failed call.
	Method string
	// URL is the full target URL of the failed call.
	URL string
	// Path is the per-call path of the failed call.
	Path string

	cause error
}

// Error implements error.
func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("fetchengo: %s %s: status %d (%v)", e.Method, e.URL, e.Status, e.cause)
	}
	return fmt.Sprintf("fetchengo: %s %s: status %d", e.Method, e.URL, e.Status)
}

// Unwrap returns the underlying cause, if any.
func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is compares by normalized status for errors.Is.
func (e *RequestError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*RequestError); ok {
		return e.Status == t.Status
	}
	return false
}

// IsAborted reports whether err is a normalized abort/timeout failure.
func IsAborted(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == StatusAborted
}

// IsUnknown reports whether err is a normalized unclassifiable failure.
func IsUnknown(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == StatusUnknown
}

// IsHTTPError reports whether err carries a real upstream HTTP status.
func IsHTTPError(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status != StatusAborted && re.Status != StatusUnknown
}
