package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ragdash/dashboard-api/internal/apperr"
	"go.uber.org/zap"
)

// HandlerFunc is a dashboard endpoint. It returns the response body or an
// error; Wrap turns either into a JSON response.
type HandlerFunc func(c *gin.Context) (any, error)

// errorResponse sends a JSON error response with {error: message} format
// matching the dashboard frontend's expected error format.
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// Wrap adapts fn to a gin handler. A nil error writes 200 with the body;
// an error is logged and mapped to its status.
func Wrap(logger *zap.Logger, fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := fn(c)
		if err != nil {
			appErr := apperr.From(err)
			status := appErr.HTTPStatus()
			fields := []zap.Field{
				zap.String("path", c.Request.URL.Path),
				zap.String("kind", string(appErr.Kind)),
				zap.Int("status", status),
				zap.Error(err),
			}
			if status >= http.StatusInternalServerError {
				logger.Error("Request failed", fields...)
			} else {
				logger.Warn("Request failed", fields...)
			}
			errorResponse(c, status, appErr.Message)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}
