package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adscout/adscout/internal/metrics"
)

// skipMetrics reports whether a path is an operational endpoint (probe or
// scrape) that should stay out of the request metrics.
func skipMetrics(path string) bool {
	return path == "/metrics" || path == "/healthz"
}

// Metrics returns Echo middleware that records per-route request counts
// and latency. The route template is used as the path label when echo
// resolves one, so /api/ads/ads/:slug/ stays a single series.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			if skipMetrics(path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			labels := []string{
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}
