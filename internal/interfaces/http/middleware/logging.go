// Package middleware provides the gin middleware chain shared by every HTTP
// route: request IDs, structured access logs, CORS, and panic recovery.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/prometheus"
)

// slowThreshold is the duration above which a completed request is logged at
// warn level.
const slowThreshold = 3 * time.Second

// RequestLogging logs every request after completion and feeds the HTTP
// metrics. Health and metrics probes are skipped to keep the log readable.
func RequestLogging(logger logging.Logger, metrics *prometheus.AppMetrics) gin.HandlerFunc {
	skip := map[string]bool{
		"/healthz": true,
		"/readyz":  true,
		"/metrics": true,
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		// FullPath keeps metrics label cardinality bounded; raw paths carry
		// CAS numbers.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, status, duration)

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", RequestIDFromContext(c)),
		}

		switch {
		case status >= 500:
			fields = append(fields, logging.String("errors", c.Errors.String()))
			logger.Error("HTTP request failed", fields...)
		case status >= 400:
			logger.Warn("HTTP request rejected", fields...)
		case duration >= slowThreshold:
			logger.Warn("HTTP request slow", fields...)
		default:
			logger.Info("HTTP request completed", fields...)
		}
	}
}
