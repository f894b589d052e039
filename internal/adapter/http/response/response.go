// Package response provides standardized HTTP response builders for the search API.
// It centralizes response formatting to ensure consistency across all endpoints.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response represents a standardized API response envelope.
type Response struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (for successful responses)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (for error responses)
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains structured error information.
type ErrorDetail struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific error details (for validation errors)
	Details map[string]string `json:"details,omitempty"`
}

// Error codes used in API responses.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeTooManyRuns      = "TOO_MANY_RUNS"
	CodeTimeout          = "TIMEOUT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Error messages used in API responses.
const (
	MsgInvalidRequestBody = "Failed to parse request body"
	MsgValidationFailed   = "Request validation failed"
	MsgRunNotFound        = "Search run not found"
	MsgRunNotActive       = "Search run is not active"
	MsgRunStillRunning    = "Search run has not finished yet"
	MsgInsufficientData   = "Not enough priced dates to build a price matrix"
	MsgTooManyRuns        = "Too many active search runs, try again later"
	MsgTimeout            = "Request timed out"
	MsgRequestCancelled   = "Request was cancelled"
	MsgInternalError      = "An unexpected error occurred"
)

// Success creates a successful response envelope.
func Success(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// Failure creates a failed response envelope.
func Failure(code, message string, details map[string]string) *Response {
	return &Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// OK writes a 200 OK response with the given data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Success(data))
}

// Accepted writes a 202 Accepted response with the given data.
func Accepted(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusAccepted, Success(data))
}

// Text writes a 200 OK plain-text response.
func Text(c echo.Context, body string) error {
	return c.String(http.StatusOK, body)
}
