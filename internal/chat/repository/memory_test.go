package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

func TestGetOrCreateProfile_Defaults(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	p, err := store.GetOrCreateProfile(ctx, domain.Identity{
		UID:         "u1",
		Email:       "u1@example.com",
		DisplayName: "User One",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", p.UID)
	assert.Equal(t, domain.DefaultRole, p.Role)
	assert.Equal(t, domain.DefaultPromptLimit, p.PromptLimit)
	assert.Equal(t, 0, p.PromptsUsed)
	assert.Empty(t, p.ChatHistory)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestGetOrCreateProfile_Idempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id := domain.Identity{UID: "u1", Email: "u1@example.com"}

	first, err := store.GetOrCreateProfile(ctx, id)
	require.NoError(t, err)

	// A second call must not overwrite the existing document.
	require.NoError(t, store.SetPromptLimit(ctx, "u1", 50))

	second, err := store.GetOrCreateProfile(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first.UID, second.UID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 50, second.PromptLimit)
}

func TestAppendMessage_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetOrCreateProfile(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)

	msg := domain.ChatMessage{
		ID:      domain.NewMessageID(),
		Role:    domain.RoleUser,
		Content: "what do you do?",
	}
	require.NoError(t, store.AppendMessage(ctx, "u1", msg))

	history, err := store.GetHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, msg, history[len(history)-1])
}

func TestAppendMessage_TruncatesToHistoryLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetOrCreateProfile(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)

	total := domain.HistoryLimit + 5
	for i := 0; i < total; i++ {
		require.NoError(t, store.AppendMessage(ctx, "u1", domain.ChatMessage{
			ID:          fmt.Sprintf("m%d", i),
			Role:        domain.RoleAssistant,
			Content:     fmt.Sprintf("reply %d", i),
			BypassQuota: true,
		}))
	}

	history, err := store.GetHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, domain.HistoryLimit)

	// Oldest entries are evicted first.
	assert.Equal(t, "m5", history[0].ID)
	assert.Equal(t, fmt.Sprintf("m%d", total-1), history[len(history)-1].ID)
}

func TestAppendMessage_QuotaAccounting(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetOrCreateProfile(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)

	require.NoError(t, store.AppendMessage(ctx, "u1", domain.ChatMessage{ID: "1", Role: domain.RoleUser, Content: "hi"}))
	require.NoError(t, store.AppendMessage(ctx, "u1", domain.ChatMessage{ID: "2", Role: domain.RoleAssistant, Content: "hello"}))
	require.NoError(t, store.AppendMessage(ctx, "u1", domain.ChatMessage{ID: "3", Role: domain.RoleUser, Content: "admin", BypassQuota: true}))

	p, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)

	// Only the non-bypassed user message counts.
	assert.Equal(t, 1, p.PromptsUsed)
}

func TestAppendMessage_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetOrCreateProfile(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.AppendMessage(ctx, "u1", domain.ChatMessage{
				ID:      fmt.Sprintf("c%d", i),
				Role:    domain.RoleUser,
				Content: "concurrent",
			})
		}(i)
	}
	wg.Wait()

	p, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.PromptsUsed, "no lost update under concurrent appends")
	assert.Len(t, p.ChatHistory, 2)
}

func TestAppendMessage_MissingProfileGetsDefaults(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.AppendMessage(ctx, "ghost", domain.ChatMessage{
		ID: "1", Role: domain.RoleUser, Content: "hello?",
	}))

	p, err := store.GetProfile(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRole, p.Role)
	assert.Equal(t, domain.DefaultPromptLimit, p.PromptLimit)
	assert.Equal(t, 1, p.PromptsUsed)
}

func TestGetHistory_NoProfile(t *testing.T) {
	store := NewMemoryStore()

	history, err := store.GetHistory(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestResetQuotas(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, uid := range []string{"a", "b"} {
		_, err := store.GetOrCreateProfile(ctx, domain.Identity{UID: uid})
		require.NoError(t, err)
		require.NoError(t, store.AppendMessage(ctx, uid, domain.ChatMessage{ID: "1", Role: domain.RoleUser, Content: "x"}))
	}

	require.NoError(t, store.ResetAllQuotas(ctx))

	for _, uid := range []string{"a", "b"} {
		p, err := store.GetProfile(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 0, p.PromptsUsed)
	}
}
