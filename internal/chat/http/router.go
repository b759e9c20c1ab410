package http

import (
	"github.com/gin-gonic/gin"

	authmw "github.com/personalink-ai/go-chat-backend/internal/auth/middleware"
	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// RegisterRoutes wires the relay endpoint and the profile API.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	// The relay authenticates inline so the unauthenticated error shape
	// matches the contract exactly.
	r.POST("/api/chat", h.Chat)

	api := r.Group("/api/v1")
	api.Use(authmw.RequireIdentity(h.verifier))

	api.GET("/me", h.GetProfile)
	api.GET("/me/history", h.GetHistory)

	admin := api.Group("/admin")
	admin.Use(authmw.RequireRole(h.store, domain.RoleAdmin))
	admin.POST("/users/:uid/quota", h.SetQuota)
	admin.POST("/users/:uid/quota/reset", h.ResetQuota)
}
