// Package handlers implements the HTTP endpoints over the application services.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/saletrack/internal/api/dto"
)

// writeError writes an error response with the given status code.
func writeError(c *gin.Context, status int, apiErr dto.APIError) {
	c.JSON(status, apiErr)
}

// bindJSON decodes the request body into req, writing a validation error on
// failure. An empty body is accepted and leaves req at its zero value when
// allowEmpty is set.
func bindJSON(c *gin.Context, req any, allowEmpty bool) bool {
	if allowEmpty && c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return false
	}
	return true
}
