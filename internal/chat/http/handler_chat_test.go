package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
	"github.com/personalink-ai/go-chat-backend/internal/chat/repository"
	"github.com/personalink-ai/go-chat-backend/internal/portfolio"
)

type fakeVerifier struct {
	tokens map[string]domain.Identity
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken string) (domain.Identity, error) {
	id, ok := f.tokens[idToken]
	if !ok {
		return domain.Identity{}, errors.New("token rejected")
	}
	return id, nil
}

type staticAnswerer struct {
	answer string
	err    error
}

func (s *staticAnswerer) Answer(ctx context.Context, message, portfolioData string) (string, error) {
	return s.answer, s.err
}

type testEnv struct {
	router *gin.Engine
	store  *repository.MemoryStore
}

func setupEnv(t *testing.T, answerer *staticAnswerer, portfolioText string) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "portfolio-data.md")
	if portfolioText != "" {
		require.NoError(t, os.WriteFile(path, []byte(portfolioText), 0o644))
	}

	verifier := &fakeVerifier{tokens: map[string]domain.Identity{
		"good-token":  {UID: "u1", Email: "u1@example.com", DisplayName: "User One"},
		"admin-token": {UID: "boss", Email: "boss@example.com"},
	}}

	store := repository.NewMemoryStore()
	h := New(verifier, store, answerer, portfolio.NewFileLoader(path), WithCharDelay(0))

	router := gin.New()
	h.RegisterRoutes(router)
	return testEnv{router: router, store: store}
}

func postChat(router *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChat_MissingToken(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")

	w := postChat(env.router, "", `{"message":"hello"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "Missing or invalid token")
}

func TestChat_InvalidToken(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")

	w := postChat(env.router, "bad-token", `{"message":"hello"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChat_EmptyMessage(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "portfolio")

	w := postChat(env.router, "good-token", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Message is required", body["detail"])
}

func TestChat_PortfolioUnreadable(t *testing.T) {
	// Empty portfolioText leaves the file unwritten.
	env := setupEnv(t, &staticAnswerer{answer: "hi"}, "")

	w := postChat(env.router, "good-token", `{"message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChat_GenerationFailure(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{err: errors.New("boom")}, "portfolio")

	w := postChat(env.router, "good-token", `{"message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "boom", body["detail"])
}

func TestChat_StreamsFullAnswer(t *testing.T) {
	answer := "I have shipped three production systems."
	env := setupEnv(t, &staticAnswerer{answer: answer}, "portfolio")

	w := postChat(env.router, "good-token", `{"message":"what have you built?"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, answer, w.Body.String())
}

func TestChat_EmptyAnswerIsNotAnError(t *testing.T) {
	env := setupEnv(t, &staticAnswerer{answer: ""}, "portfolio")

	w := postChat(env.router, "good-token", `{"message":"hello"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
