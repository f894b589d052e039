package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/flight-search/flexible-date-search/internal/infrastructure/metrics"
)

// RequestLogger returns middleware that logs HTTP requests.
// It logs on request completion with method, path, status, duration, and client info,
// and records the request in the HTTP metrics.
// The logger should be the zerolog.Logger instance from the logger package.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		// Let Echo's error handler write the response before logging
		HandleError:     true,
		LogMethod:       true,
		LogURIPath:      true,
		LogRoutePath:    true,
		LogStatus:       true,
		LogLatency:      true,
		LogRemoteIP:     true,
		LogUserAgent:    true,
		LogResponseSize: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			// Determine log level based on status code
			var event *zerolog.Event
			switch {
			case v.Status >= 500:
				event = log.Error()
			case v.Status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}

			event.
				Str("request_id", GetRequestID(c)).
				Str("method", v.Method).
				Str("path", v.URIPath).
				Str("query", c.QueryString()).
				Int("status", v.Status).
				Int64("duration_ms", v.Latency.Milliseconds()).
				Int64("bytes_out", v.ResponseSize).
				Str("client_ip", v.RemoteIP).
				Str("user_agent", v.UserAgent).
				Msg("HTTP request")

			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(v.Method, route, strconv.Itoa(v.Status)).Inc()
			metrics.HTTPDuration.WithLabelValues(v.Method, route).Observe(v.Latency.Seconds())
			return nil
		},
	})
}
