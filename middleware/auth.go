package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ModeratorRole is the claim value required for moderation endpoints.
const ModeratorRole = "moderator"

// ModeratorRequired gates moderation-only routes. The promotion flow that
// mints the token lives in an external auth service; here we only verify the
// bearer JWT and its role claim.
func ModeratorRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != ModeratorRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "moderator role required"})
			return
		}

		if moderator, ok := claims["sub"].(string); ok {
			c.Set("moderator", moderator)
		}
		c.Next()
	}
}
