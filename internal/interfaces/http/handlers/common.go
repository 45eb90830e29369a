// Package handlers implements the HTTP endpoints of the compliance API.
// Handlers stay thin: bind, delegate to an application service, render.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

// ErrorResponse is the uniform error body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError renders an application error with its mapped HTTP status.
// Unstructured errors are masked as a generic 500.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if errors.IsServerError(code) {
		message = errors.DefaultMessageForCode(code)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Code: string(code), Message: message})
}

// respondBindError reports a malformed request body or parameter.
func respondBindError(c *gin.Context, err error) {
	respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request"))
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage.
func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// noContent renders an empty 204.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
