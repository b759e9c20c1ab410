package domain

import (
	"strconv"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	// HistoryLimit caps the stored chat history per profile. Oldest
	// entries are evicted first, independent of role.
	HistoryLimit = 20

	// DefaultPromptLimit is the prompt quota assigned to new profiles.
	DefaultPromptLimit = 10
)

// ChatMessage is one entry in a chat transcript. Content grows while a
// response is streaming and is immutable once the turn settles.
type ChatMessage struct {
	ID          string `json:"id" firestore:"id"`
	Role        string `json:"role" firestore:"role"`
	Content     string `json:"content" firestore:"content"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	BypassQuota bool   `json:"bypassQuota,omitempty" firestore:"bypassQuota,omitempty"`
}

// UserProfile is the per-identity document held in the profile store.
// The store is the source of truth; clients only cache it.
type UserProfile struct {
	UID         string        `json:"uid" firestore:"uid"`
	Email       string        `json:"email" firestore:"email"`
	DisplayName string        `json:"displayName" firestore:"displayName"`
	PhotoURL    string        `json:"photoURL" firestore:"photoURL"`
	Role        Role          `json:"role" firestore:"role"`
	PromptLimit int           `json:"promptLimit" firestore:"promptLimit"`
	PromptsUsed int           `json:"promptsUsed" firestore:"promptsUsed"`
	ChatHistory []ChatMessage `json:"chatHistory" firestore:"chatHistory"`
	CreatedAt   time.Time     `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// QuotaExhausted reports whether the profile has used up its prompt quota.
func (p *UserProfile) QuotaExhausted() bool {
	return p.PromptsUsed >= p.PromptLimit
}

// Identity is the subset of verified token claims the profile store needs.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// NewMessageID returns a time-derived message ID, unique within a session.
func NewMessageID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// CountsAgainstQuota reports whether persisting this message must
// increment the profile's prompt usage counter.
func (m ChatMessage) CountsAgainstQuota() bool {
	return m.Role == RoleUser && !m.BypassQuota
}

// Truncate returns history reduced to the most recent HistoryLimit
// entries, oldest evicted first.
func Truncate(history []ChatMessage) []ChatMessage {
	if len(history) <= HistoryLimit {
		return history
	}
	return history[len(history)-HistoryLimit:]
}
