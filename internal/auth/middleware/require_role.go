package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/personalink-ai/go-chat-backend/internal/auth"
	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
	"github.com/personalink-ai/go-chat-backend/internal/chat/repository"
)

// RequireRole loads the caller's profile and aborts with 403 unless its
// role is one of the required roles. Must run after RequireIdentity.
func RequireRole(store repository.ProfileStore, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.IdentityFromContext(c)
		if id.UID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized: Missing identity"})
			c.Abort()
			return
		}

		profile, err := store.GetProfile(c.Request.Context(), id.UID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Forbidden: No profile"})
			c.Abort()
			return
		}

		if !domain.HasCapability(profile, roles...) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Forbidden: Insufficient role"})
			c.Abort()
			return
		}

		c.Next()
	}
}
