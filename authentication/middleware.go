package authentication

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/srikiran1905s/FEDF/models"
)

// RequireRole verifies the bearer token on every request and rejects
// callers whose role is not in the allowed set. On success the user id
// and role are attached to the request context, handlers trust these
// values instead of re-validating the token themselves.
func RequireRole(tokens *TokenManager, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"error":   "Unauthorized",
				"message": "missing authorization header",
			})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"error":   tokenErrorCode(err),
				"message": err.Error(),
			})
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"error":   "Forbidden",
				"message": "this account role cannot access the requested resource",
			})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func tokenErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "Expired"
	case errors.Is(err, ErrInvalidSignature):
		return "InvalidSignature"
	default:
		return "Unauthorized"
	}
}

// CurrentUserID returns the authenticated user id set by RequireRole.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentRole returns the authenticated role set by RequireRole.
func CurrentRole(c *gin.Context) models.Role {
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}
