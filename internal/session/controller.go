// Package session orchestrates one chat turn end-to-end on the client:
// quota check, optimistic rendering, the relay call, incremental stream
// assembly, and history persistence. The remote profile document is the
// source of truth; the controller only caches it and tolerates
// staleness.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// WelcomeMessageID marks the seeded greeting; it is view-only and never
// persisted.
const WelcomeMessageID = "welcome-message"

// Config wires a Controller's collaborators.
type Config struct {
	// RelayURL is the full URL of the response relay endpoint.
	RelayURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	Tokens   TokenSource
	Profiles ProfileService
	Identity domain.Identity

	// WelcomeMessage, when non-empty, seeds the view for sessions with
	// no stored history.
	WelcomeMessage string

	// OnMessages receives a snapshot of the full message list after
	// every mutation, including each streaming increment.
	OnMessages func([]domain.ChatMessage)

	// OnNotice receives transient user-facing notices.
	OnNotice func(Notice)

	Logger *log.Logger
}

// Controller runs chat turns for one authenticated session.
type Controller struct {
	cfg Config

	mu       sync.Mutex
	state    State
	profile  *domain.UserProfile
	messages []domain.ChatMessage
}

func New(cfg Config) (*Controller, error) {
	if cfg.RelayURL == "" {
		return nil, fmt.Errorf("session: RelayURL is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("session: TokenSource is required")
	}
	if cfg.Profiles == nil {
		return nil, fmt.Errorf("session: ProfileService is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Controller{cfg: cfg, state: StateIdle}, nil
}

// Start loads the profile (creating it on first login) and the stored
// history into the view. A history read failure is non-fatal: the
// session starts empty and the user is notified.
func (c *Controller) Start(ctx context.Context) error {
	profile, err := c.cfg.Profiles.GetOrCreateProfile(ctx, c.cfg.Identity)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	history, err := c.cfg.Profiles.GetHistory(ctx, profile.UID)
	if err != nil {
		c.cfg.Logger.Printf("[warn] session: load history: %v", err)
		c.notify(Notice{Level: NoticeWarning, Message: "Could not load your previous messages."})
		history = nil
	}

	if len(history) == 0 && c.cfg.WelcomeMessage != "" {
		history = []domain.ChatMessage{{
			ID:      WelcomeMessageID,
			Role:    domain.RoleAssistant,
			Content: c.cfg.WelcomeMessage,
		}}
	}

	c.mu.Lock()
	c.profile = profile
	c.messages = history
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snapshot)
	return nil
}

// Send runs one turn. Pre-turn refusals (empty input, quota reached,
// token failure) are returned as errors; failures after the optimistic
// append are rendered into the assistant message and reported through
// OnNotice, and Send returns nil.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}

	c.setState(StateQuotaCheck)

	c.mu.Lock()
	if c.profile != nil && c.profile.QuotaExhausted() {
		limit := c.profile.PromptLimit
		c.mu.Unlock()
		c.setState(StateIdle)
		c.notify(Notice{
			Level:   NoticeWarning,
			Message: fmt.Sprintf("You have reached your limit of %d prompts.", limit),
		})
		return domain.ErrQuotaExceeded
	}
	c.mu.Unlock()

	uid := c.cfg.Identity.UID

	base := time.Now().UnixNano()
	userMsg := domain.ChatMessage{
		ID:          strconv.FormatInt(base, 10),
		Role:        domain.RoleUser,
		Content:     text,
		DisplayName: c.cfg.Identity.DisplayName,
	}

	// Optimistic append: the user's message is visible before anything
	// else happens and is only rolled back on a token failure.
	c.appendMessage(userMsg)

	c.setState(StateSending)
	token, err := c.cfg.Tokens.Token(ctx)
	if err != nil {
		c.removeMessage(userMsg.ID)
		c.setState(StateIdle)
		c.notify(Notice{Level: NoticeError, Message: "Your session is invalid. Please sign in again."})
		return fmt.Errorf("acquire identity token: %w", err)
	}

	assistantID := strconv.FormatInt(base+1, 10)
	c.appendMessage(domain.ChatMessage{ID: assistantID, Role: domain.RoleAssistant, Content: ""})

	// Best-effort, non-blocking persistence of the user message. The
	// turn continues regardless of the outcome.
	persistCtx := context.WithoutCancel(ctx)
	go func() {
		if err := c.cfg.Profiles.AppendMessage(persistCtx, uid, userMsg); err != nil {
			c.cfg.Logger.Printf("[warn] session: persist user message: %v", err)
			c.notify(Notice{Level: NoticeWarning, Message: "Your message could not be saved."})
		}
	}()

	// Local quota bookkeeping happens on initiation, not confirmation,
	// so the next quota check sees up-to-date state without a round
	// trip. The store's increment is the authoritative one.
	if userMsg.CountsAgainstQuota() {
		c.mu.Lock()
		if c.profile != nil {
			c.profile.PromptsUsed++
		}
		c.mu.Unlock()
	}

	// The assistant message is persisted after the turn settles, success
	// or error, reading its final content from the live message list
	// rather than any value captured before streaming.
	defer func() {
		c.setState(StatePersisting)
		if final, ok := c.messageByID(assistantID); ok {
			if err := c.cfg.Profiles.AppendMessage(persistCtx, uid, final); err != nil {
				c.cfg.Logger.Printf("[warn] session: persist assistant message: %v", err)
				c.notify(Notice{Level: NoticeWarning, Message: "The response could not be saved."})
			}
		}
		c.setState(StateIdle)
	}()

	body, err := json.Marshal(chatPayload{Message: text})
	if err != nil {
		c.failTurn(assistantID, err.Error())
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RelayURL, bytes.NewReader(body))
	if err != nil {
		c.failTurn(assistantID, err.Error())
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		c.failTurn(assistantID, err.Error())
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.failTurn(assistantID, decodeDetail(resp.Body))
		return nil
	}

	c.setState(StateStreaming)

	// Chunks arrive in order; each increment replaces the placeholder's
	// content with the accumulator so the message appears to type
	// itself. An empty stream is a valid empty answer.
	var acc strings.Builder
	buf := make([]byte, 512)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			acc.Write(buf[:n])
			c.setMessageContent(assistantID, acc.String())
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			c.failTurn(assistantID, readErr.Error())
			return nil
		}
	}

	return nil
}

// Messages returns a snapshot of the visible message list.
func (c *Controller) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Profile returns a copy of the locally cached profile, or nil before
// Start.
func (c *Controller) Profile() *domain.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	out := *c.profile
	return &out
}

// PromptsRemaining reports how many turns the cached quota still
// allows.
func (c *Controller) PromptsRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return 0
	}
	if remaining := c.profile.PromptLimit - c.profile.PromptsUsed; remaining > 0 {
		return remaining
	}
	return 0
}

// State returns the current turn phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

type chatPayload struct {
	Message string `json:"message"`
}

// failTurn converts a send or streaming failure into the user-facing
// error string that becomes the assistant message's final content.
func (c *Controller) failTurn(assistantID, detail string) {
	c.setState(StateError)
	c.setMessageContent(assistantID, "Sorry, I encountered an error: "+detail)
	c.notify(Notice{Level: NoticeError, Message: "Failed to get response: " + detail})
}

func decodeDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Detail == "" {
		return "Unknown error occurred"
	}
	return body.Detail
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) appendMessage(msg domain.ChatMessage) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snapshot)
}

func (c *Controller) removeMessage(id string) {
	c.mu.Lock()
	out := c.messages[:0]
	for _, m := range c.messages {
		if m.ID != id {
			out = append(out, m)
		}
	}
	c.messages = out
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snapshot)
}

func (c *Controller) setMessageContent(id, content string) {
	c.mu.Lock()
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Content = content
			break
		}
	}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snapshot)
}

func (c *Controller) messageByID(id string) (domain.ChatMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.messages {
		if m.ID == id {
			return m, true
		}
	}
	return domain.ChatMessage{}, false
}

func (c *Controller) snapshotLocked() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) publish(messages []domain.ChatMessage) {
	if c.cfg.OnMessages != nil {
		c.cfg.OnMessages(messages)
	}
}

func (c *Controller) notify(n Notice) {
	if c.cfg.OnNotice != nil {
		c.cfg.OnNotice(n)
	}
}
