package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/newtown/billsplitter/internal/metrics"
)

// RequestLogger logs every request and feeds the latency histogram.
// It logs the method, route, status, duration, and any handler errors.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(duration.Seconds())

		if len(c.Errors) > 0 {
			slog.Warn("Request failed",
				"method", c.Request.Method,
				"route", route,
				"status", status,
				"duration_ms", duration.Milliseconds(),
				"errors", c.Errors.String(),
			)
			return
		}
		slog.Info("Request completed",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", duration.Milliseconds(),
		)
	}
}
