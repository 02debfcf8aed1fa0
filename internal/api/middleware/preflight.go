package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Preflight answers OPTIONS on any path with 200 and an empty JSON
// object before routing.
func Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{})
			return
		}
		c.Next()
	}
}
