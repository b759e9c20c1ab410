package repository

import (
	"context"
	"sync"
	"time"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// MemoryStore is an in-process ProfileStore for tests and local
// development (STORAGE_BACKEND=memory). It honors the same atomicity
// contract as the hosted backends.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]*domain.UserProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*domain.UserProfile)}
}

func (s *MemoryStore) GetOrCreateProfile(ctx context.Context, id domain.Identity) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[id.UID]; ok {
		return copyProfile(p), nil
	}

	p := defaultProfile(id)
	p.CreatedAt = time.Now().UTC()
	s.profiles[id.UID] = p
	return copyProfile(p), nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, uid string, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		p = defaultProfile(domain.Identity{UID: uid})
		p.CreatedAt = time.Now().UTC()
		s.profiles[uid] = p
	}

	p.ChatHistory = domain.Truncate(append(p.ChatHistory, msg))
	if msg.CountsAgainstQuota() {
		p.PromptsUsed++
	}
	return nil
}

func (s *MemoryStore) GetHistory(ctx context.Context, uid string) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return []domain.ChatMessage{}, nil
	}
	out := make([]domain.ChatMessage, len(p.ChatHistory))
	copy(out, p.ChatHistory)
	return out, nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return copyProfile(p), nil
}

func (s *MemoryStore) SetPromptLimit(ctx context.Context, uid string, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.PromptLimit = limit
	return nil
}

func (s *MemoryStore) ResetPromptsUsed(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.PromptsUsed = 0
	return nil
}

func (s *MemoryStore) ResetAllQuotas(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		p.PromptsUsed = 0
	}
	return nil
}

// SetRole changes a profile's role. Role assignment happens out-of-band
// in the hosted backends; this exists for tests and local development.
func (s *MemoryStore) SetRole(uid string, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[uid]; ok {
		p.Role = role
	}
}

func copyProfile(p *domain.UserProfile) *domain.UserProfile {
	out := *p
	out.ChatHistory = make([]domain.ChatMessage, len(p.ChatHistory))
	copy(out.ChatHistory, p.ChatHistory)
	return &out
}
