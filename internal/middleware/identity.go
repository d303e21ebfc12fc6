package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the context key the identity middleware sets.
const UserIDKey = "user_id"

// Identity requires the opaque X-User-ID header on every request and makes
// it available to handlers. The identifier is caller-supplied and not
// verified; authentication is out of scope.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the identity set by the middleware.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
