package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/personalink-ai/go-chat-backend/internal/auth"
)

// RequireIdentity validates the bearer ID token and stores the caller's
// identity in the context. A missing or malformed header is 401; a
// token the provider rejects is 403.
func RequireIdentity(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractBearer(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized: Missing or invalid token"})
			c.Abort()
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Unauthorized: Invalid token"})
			c.Abort()
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// ExtractBearer extracts the bearer token from the Authorization header.
func ExtractBearer(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
