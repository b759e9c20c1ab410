package repository

import (
	"context"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// ProfileStore is the persistence contract for user profiles and chat
// history. AppendMessage must be a single atomic read-modify-write:
// append, truncate to the history cap, and increment the prompt usage
// counter for quota-counted messages, with no lost updates under
// concurrent calls for the same user.
type ProfileStore interface {
	// GetOrCreateProfile returns the existing profile for the identity
	// or creates one with defaults. It never overwrites an existing
	// document.
	GetOrCreateProfile(ctx context.Context, id domain.Identity) (*domain.UserProfile, error)

	// AppendMessage atomically appends msg to the stored history,
	// truncates to the most recent entries, and increments the prompt
	// usage counter iff the message counts against quota.
	AppendMessage(ctx context.Context, uid string, msg domain.ChatMessage) error

	// GetHistory returns the stored (already-truncated) history, or an
	// empty slice when no profile exists.
	GetHistory(ctx context.Context, uid string) ([]domain.ChatMessage, error)

	// GetProfile returns the profile or domain.ErrProfileNotFound.
	GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error)

	// SetPromptLimit raises or lowers a profile's quota.
	SetPromptLimit(ctx context.Context, uid string, limit int) error

	// ResetPromptsUsed zeroes a profile's usage counter.
	ResetPromptsUsed(ctx context.Context, uid string) error

	// ResetAllQuotas zeroes every profile's usage counter.
	ResetAllQuotas(ctx context.Context) error
}

var defaultPromptLimit = domain.DefaultPromptLimit

// SetDefaultPromptLimit overrides the prompt allowance granted to new
// profiles. Called once at startup from configuration; existing
// profiles keep their stored limit.
func SetDefaultPromptLimit(n int) {
	if n > 0 {
		defaultPromptLimit = n
	}
}

// defaultProfile builds a fresh profile document for a first-time
// identity. Used by every adapter so the get-or-create path and the
// append-to-missing-profile path create identical defaults.
func defaultProfile(id domain.Identity) *domain.UserProfile {
	return &domain.UserProfile{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Role:        domain.DefaultRole,
		PromptLimit: defaultPromptLimit,
		PromptsUsed: 0,
		ChatHistory: []domain.ChatMessage{},
	}
}
