package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
)

// Recovery converts a handler panic into a 500 response instead of tearing
// down the connection, logging the stack for the operator.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("HTTP handler panicked",
					logging.String("path", c.Request.URL.Path),
					logging.Any("panic", rec),
					logging.String("stack", string(debug.Stack())))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "COMMON_001",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
