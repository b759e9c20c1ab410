package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

func doJSON(env testEnv, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestGetProfile_CreatesOnFirstLogin(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")

	w := doJSON(env, http.MethodGet, "/api/v1/me", "good-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Profile domain.UserProfile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u1", body.Profile.UID)
	assert.Equal(t, domain.DefaultRole, body.Profile.Role)
	assert.Equal(t, domain.DefaultPromptLimit, body.Profile.PromptLimit)
	assert.Equal(t, 0, body.Profile.PromptsUsed)
}

func TestGetProfile_RequiresAuth(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")

	w := doJSON(env, http.MethodGet, "/api/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetHistory_RoundTrip(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")
	ctx := context.Background()

	_, err := env.store.GetOrCreateProfile(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)

	msg := domain.ChatMessage{ID: "1", Role: domain.RoleUser, Content: "hello"}
	require.NoError(t, env.store.AppendMessage(ctx, "u1", msg))

	w := doJSON(env, http.MethodGet, "/api/v1/me/history", "good-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		History []domain.ChatMessage `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.History, 1)
	assert.Equal(t, msg, body.History[0])
}

func TestAdminQuota_RequiresAdminRole(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")
	ctx := context.Background()

	// good-token's profile defaults to the friends role.
	_, err := env.store.GetOrCreateProfile(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)

	w := doJSON(env, http.MethodPost, "/api/v1/admin/users/u1/quota", "good-token", `{"prompt_limit":50}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func makeAdmin(t *testing.T, env testEnv, uid string) {
	t.Helper()
	_, err := env.store.GetOrCreateProfile(context.Background(), domain.Identity{UID: uid})
	require.NoError(t, err)
	env.store.SetRole(uid, domain.RoleAdmin)
}

func TestAdminQuota_SetAndReset(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")
	ctx := context.Background()

	makeAdmin(t, env, "boss")
	_, err := env.store.GetOrCreateProfile(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)
	require.NoError(t, env.store.AppendMessage(ctx, "u1", domain.ChatMessage{ID: "1", Role: domain.RoleUser, Content: "x"}))

	w := doJSON(env, http.MethodPost, "/api/v1/admin/users/u1/quota", "admin-token", `{"prompt_limit":50}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(env, http.MethodPost, "/api/v1/admin/users/u1/quota/reset", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	p, err := env.store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, p.PromptLimit)
	assert.Equal(t, 0, p.PromptsUsed)
}

func TestAdminQuota_UnknownUser(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")
	makeAdmin(t, env, "boss")

	w := doJSON(env, http.MethodPost, "/api/v1/admin/users/nobody/quota", "admin-token", `{"prompt_limit":5}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
