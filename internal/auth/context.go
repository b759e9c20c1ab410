package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

const (
	CtxUID         = "auth_uid"
	CtxEmail       = "auth_email"
	CtxDisplayName = "auth_display_name"
	CtxPhotoURL    = "auth_photo_url"
)

// SetIdentity stores the verified identity in the Gin context.
func SetIdentity(c *gin.Context, id domain.Identity) {
	c.Set(CtxUID, id.UID)
	c.Set(CtxEmail, id.Email)
	c.Set(CtxDisplayName, id.DisplayName)
	c.Set(CtxPhotoURL, id.PhotoURL)
}

// IdentityFromContext extracts the identity set by the auth middleware.
func IdentityFromContext(c *gin.Context) domain.Identity {
	return domain.Identity{
		UID:         strings.TrimSpace(c.GetString(CtxUID)),
		Email:       c.GetString(CtxEmail),
		DisplayName: c.GetString(CtxDisplayName),
		PhotoURL:    c.GetString(CtxPhotoURL),
	}
}
