package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/personalink-ai/go-chat-backend/internal/auth"
	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// GetProfile returns the caller's profile, creating it on first login.
func (h *Handler) GetProfile(c *gin.Context) {
	id := auth.IdentityFromContext(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized: Missing identity"})
		return
	}

	profile, err := h.store.GetOrCreateProfile(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetHistory returns the caller's stored chat history, oldest first.
func (h *Handler) GetHistory(c *gin.Context) {
	id := auth.IdentityFromContext(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized: Missing identity"})
		return
	}

	history, err := h.store.GetHistory(c.Request.Context(), id.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// SetQuota raises or lowers a user's prompt limit. Admin only.
func (h *Handler) SetQuota(c *gin.Context) {
	var req setQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PromptLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "prompt_limit must be a positive integer"})
		return
	}

	uid := c.Param("uid")
	if err := h.store.SetPromptLimit(c.Request.Context(), uid, req.PromptLimit); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update quota"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uid": uid, "prompt_limit": req.PromptLimit})
}

// ResetQuota zeroes a user's prompt usage counter. Admin only.
func (h *Handler) ResetQuota(c *gin.Context) {
	uid := c.Param("uid")
	if err := h.store.ResetPromptsUsed(c.Request.Context(), uid); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to reset quota"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uid": uid, "prompts_used": 0})
}
