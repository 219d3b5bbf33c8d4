package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salehub/backend/internal/interfaces/http/dto"
	"github.com/salehub/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response, deriving the status from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message))
}

// WebhookError sends a webhook failure body, deriving the status from the error code
func (h *BaseHandler) WebhookError(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewWebhookError(code, message, getRequestID(c)))
}
