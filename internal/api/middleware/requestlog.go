// Package middleware provides Echo middleware for the bundled mock
// marketplace server.
package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"

	// requestIDKey is the echo context key under which the request ID is
	// stored for downstream handlers and the recovery middleware.
	requestIDKey = "request_id"
)

// RequestLog returns Echo middleware that tags every request with an ID
// and emits one structured log line per request after the handler runs.
// A caller-supplied X-Request-ID is honored; otherwise one is minted.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := ensureRequestID(c)

			err := next(c)

			log.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}

// ensureRequestID resolves the request ID for this request and propagates
// it to the echo context and the response header.
func ensureRequestID(c echo.Context) string {
	reqID := c.Request().Header.Get(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Set(requestIDKey, reqID)
	c.Response().Header().Set(requestIDHeader, reqID)
	return reqID
}
