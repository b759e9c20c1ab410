package http

import (
	"time"

	"github.com/personalink-ai/go-chat-backend/internal/auth"
	"github.com/personalink-ai/go-chat-backend/internal/chat/repository"
	"github.com/personalink-ai/go-chat-backend/internal/generation"
	"github.com/personalink-ai/go-chat-backend/internal/portfolio"
	"github.com/personalink-ai/go-chat-backend/internal/stream"
)

// Handler serves the relay endpoint and the profile API.
type Handler struct {
	verifier  auth.TokenVerifier
	store     repository.ProfileStore
	answerer  generation.Answerer
	portfolio portfolio.Loader
	charDelay time.Duration
}

type Option func(*Handler)

// WithCharDelay overrides the simulated per-character streaming delay.
// Tests pass zero to disable pacing.
func WithCharDelay(d time.Duration) Option {
	return func(h *Handler) { h.charDelay = d }
}

func New(verifier auth.TokenVerifier, store repository.ProfileStore, answerer generation.Answerer, loader portfolio.Loader, opts ...Option) *Handler {
	h := &Handler{
		verifier:  verifier,
		store:     store,
		answerer:  answerer,
		portfolio: loader,
		charDelay: stream.DefaultCharDelay,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type chatRequest struct {
	Message string `json:"message"`
}

type setQuotaRequest struct {
	PromptLimit int `json:"prompt_limit"`
}
