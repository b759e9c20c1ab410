package session

import (
	"context"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// TokenSource yields a fresh identity token for the relay call. The
// hosted auth provider refreshes tokens; tests use a static source.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token on every call.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// ProfileService is the slice of the profile store the controller
// needs. Satisfied by every repository.ProfileStore adapter.
type ProfileService interface {
	GetOrCreateProfile(ctx context.Context, id domain.Identity) (*domain.UserProfile, error)
	AppendMessage(ctx context.Context, uid string, msg domain.ChatMessage) error
	GetHistory(ctx context.Context, uid string) ([]domain.ChatMessage, error)
}

// Notice levels for transient user-facing messages.
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a transient message surfaced to the user outside the
// transcript (the toast of the web UI).
type Notice struct {
	Level   string
	Message string
}
