package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"docutrack/internal/model"
	"docutrack/internal/pkg/jwtutil"
	"docutrack/internal/transport/http/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "email"
	ContextRoleKey   = "role"
)

func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after AuthJWT.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextRoleKey)
		if !exists {
			response.Error(c, 401, response.CodeUnauthorized, "role not found in token")
			c.Abort()
			return
		}
		role, ok := raw.(string)
		if !ok {
			response.Error(c, 401, response.CodeUnauthorized, "invalid token payload")
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if model.Role(role) == allowed {
				c.Next()
				return
			}
		}
		response.Error(c, 403, response.CodeForbidden, "insufficient role")
		c.Abort()
	}
}
