package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerMiddleware enforces the shared-secret bearer token on protected
// routes. An empty secret disables auth entirely: every request passes,
// Authorization header or not. On mismatch the request is aborted before
// any handler runs, so no side effects occur.
func BearerMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
