package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the flexible-date search engine.
var (
	// ErrInvalidRequest is returned when a search request fails validation.
	// No lookups are issued for a request that fails with this error.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInsufficientData is returned when the successful outcomes of a run
	// do not span at least two departure dates and two return dates.
	ErrInsufficientData = errors.New("insufficient data for a 2-D view")

	// ErrRunNotFound is returned when a run ID is unknown to the run store.
	ErrRunNotFound = errors.New("search run not found")

	// ErrRunNotActive is returned when cancelling a run that already finished.
	ErrRunNotActive = errors.New("search run is not active")

	// ErrRunLimitReached is returned when the maximum number of concurrent
	// background runs is already executing.
	ErrRunLimitReached = errors.New("too many active search runs")

	// ErrLookupTimeout is returned when a single lookup exceeds its deadline.
	ErrLookupTimeout = errors.New("lookup timeout")

	// ErrLookupUnavailable is returned when the pricing backend cannot be reached.
	ErrLookupUnavailable = errors.New("lookup unavailable")
)

// LookupError wraps a failure of a single external lookup call.
type LookupError struct {
	// Lookup is the name of the collaborator that failed.
	Lookup string

	// Err is the underlying error.
	Err error

	// Retryable reports whether repeating the call may succeed.
	Retryable bool
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Lookup, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError creates a non-retryable lookup error.
func NewLookupError(lookup string, err error) *LookupError {
	return &LookupError{Lookup: lookup, Err: err}
}

// NewRetryableLookupError creates a lookup error that may succeed on retry.
func NewRetryableLookupError(lookup string, err error) *LookupError {
	return &LookupError{Lookup: lookup, Err: err, Retryable: true}
}

// NewLookupTimeoutError creates a lookup error wrapping ErrLookupTimeout.
func NewLookupTimeoutError(lookup string) *LookupError {
	return &LookupError{Lookup: lookup, Err: ErrLookupTimeout}
}

// NewLookupUnavailableError creates a retryable lookup error wrapping ErrLookupUnavailable.
func NewLookupUnavailableError(lookup string) *LookupError {
	return &LookupError{Lookup: lookup, Err: ErrLookupUnavailable, Retryable: true}
}

// ValidationError describes a single invalid request field.
// It unwraps to ErrInvalidRequest.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// WrapInvalidRequest formats a message and wraps it with ErrInvalidRequest.
func WrapInvalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// IsInvalidRequest reports whether err is or wraps ErrInvalidRequest.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsInsufficientData reports whether err is or wraps ErrInsufficientData.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsLookupTimeout reports whether err is or wraps ErrLookupTimeout.
func IsLookupTimeout(err error) bool {
	return errors.Is(err, ErrLookupTimeout)
}

// IsRetryable reports whether err carries a retryable LookupError.
func IsRetryable(err error) bool {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Retryable
	}
	return false
}
