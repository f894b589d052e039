package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// fail writes an error envelope with the given status.
func fail(c echo.Context, status int, code, message string, details map[string]string) error {
	return c.JSON(status, Failure(code, message, details))
}

// BadRequest writes a 400 Bad Request response with the given error message.
func BadRequest(c echo.Context, message string) error {
	return fail(c, http.StatusBadRequest, CodeInvalidRequest, message, nil)
}

// InvalidRequestBody writes a 400 Bad Request response for malformed request bodies.
func InvalidRequestBody(c echo.Context) error {
	return fail(c, http.StatusBadRequest, CodeInvalidRequest, MsgInvalidRequestBody, nil)
}

// ValidationError writes a 400 Bad Request response with validation error details.
func ValidationError(c echo.Context, details map[string]string) error {
	return fail(c, http.StatusBadRequest, CodeInvalidRequest, MsgValidationFailed, details)
}

// NotFound writes a 404 Not Found response for unknown runs.
func NotFound(c echo.Context) error {
	return fail(c, http.StatusNotFound, CodeNotFound, MsgRunNotFound, nil)
}

// Conflict writes a 409 Conflict response with the given message.
func Conflict(c echo.Context, message string) error {
	return fail(c, http.StatusConflict, CodeConflict, message, nil)
}

// InsufficientData writes a 422 Unprocessable Entity response when no 2-D
// view can be built.
func InsufficientData(c echo.Context, reason string) error {
	message := MsgInsufficientData
	if reason != "" {
		message = reason
	}
	return fail(c, http.StatusUnprocessableEntity, CodeInsufficientData, message, nil)
}

// TooManyRuns writes a 429 Too Many Requests response.
func TooManyRuns(c echo.Context) error {
	return fail(c, http.StatusTooManyRequests, CodeTooManyRuns, MsgTooManyRuns, nil)
}

// GatewayTimeout writes a 504 Gateway Timeout response.
func GatewayTimeout(c echo.Context) error {
	return fail(c, http.StatusGatewayTimeout, CodeTimeout, MsgTimeout, nil)
}

// RequestCancelled writes a 504 Gateway Timeout response for cancelled requests.
func RequestCancelled(c echo.Context) error {
	return fail(c, http.StatusGatewayTimeout, CodeTimeout, MsgRequestCancelled, nil)
}

// InternalServerError writes a 500 Internal Server Error response.
func InternalServerError(c echo.Context) error {
	return fail(c, http.StatusInternalServerError, CodeInternalError, MsgInternalError, nil)
}
