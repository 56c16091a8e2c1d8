package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by Middleware for downstream handlers.
const (
	ContextUsername = "auth.username"
	ContextRole     = "auth.role"
)

// Middleware rejects requests without a valid bearer token and stashes the
// caller's identity in the gin context.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := m.VerifyToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// UsernameFrom returns the authenticated username set by Middleware.
func UsernameFrom(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// RoleFrom returns the authenticated role set by Middleware.
func RoleFrom(c *gin.Context) string {
	return c.GetString(ContextRole)
}
