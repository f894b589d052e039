package amadeus

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Code       int
	Title      string
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("amadeus status %d: %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	if e.Title != "" {
		return fmt.Sprintf("amadeus status %d: %s", e.StatusCode, e.Title)
	}
	return fmt.Sprintf("amadeus status %d", e.StatusCode)
}

// Retryable reports whether the same request may succeed later:
// rate limiting and server errors are, other client errors are not.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
