package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// PostgresStore is a relational ProfileStore for deployments without
// Firestore. History is stored as a JSONB document so the profile stays
// one row and the append-and-increment stays one transaction.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the profiles table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists profiles (
  uid           text primary key,
  email         text not null default '',
  display_name  text not null default '',
  photo_url     text not null default '',
  role          text not null default 'friends',
  prompt_limit  int  not null default 10,
  prompts_used  int  not null default 0,
  chat_history  jsonb not null default '[]',
  created_at    timestamptz not null default now()
);
`
	if _, err := s.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("ensure profiles schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetOrCreateProfile(ctx context.Context, id domain.Identity) (*domain.UserProfile, error) {
	const ins = `
insert into profiles (uid, email, display_name, photo_url, role, prompt_limit, prompts_used)
values ($1, $2, $3, $4, $5, $6, 0)
on conflict (uid) do nothing;
`
	if _, err := s.db.Exec(ctx, ins,
		id.UID, id.Email, id.DisplayName, id.PhotoURL,
		string(domain.DefaultRole), defaultPromptLimit,
	); err != nil {
		return nil, fmt.Errorf("pg GetOrCreateProfile insert: %w", err)
	}

	return s.GetProfile(ctx, id.UID)
}

func (s *PostgresStore) AppendMessage(ctx context.Context, uid string, msg domain.ChatMessage) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg AppendMessage begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var historyJSON []byte
	const sel = `select chat_history from profiles where uid = $1 for update;`
	err = tx.QueryRow(ctx, sel, uid).Scan(&historyJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		const ins = `
insert into profiles (uid, role, prompt_limit, prompts_used)
values ($1, $2, $3, 0);
`
		if _, err := tx.Exec(ctx, ins, uid, string(domain.DefaultRole), defaultPromptLimit); err != nil {
			return fmt.Errorf("pg AppendMessage create profile: %w", err)
		}
		historyJSON = []byte("[]")
	} else if err != nil {
		return fmt.Errorf("pg AppendMessage select: %w", err)
	}

	var history []domain.ChatMessage
	if err := json.Unmarshal(historyJSON, &history); err != nil {
		return fmt.Errorf("pg AppendMessage decode history: %w", err)
	}

	history = domain.Truncate(append(history, msg))
	out, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("pg AppendMessage encode history: %w", err)
	}

	increment := 0
	if msg.CountsAgainstQuota() {
		increment = 1
	}

	const upd = `
update profiles
set chat_history = $2,
    prompts_used = prompts_used + $3
where uid = $1;
`
	if _, err := tx.Exec(ctx, upd, uid, out, increment); err != nil {
		return fmt.Errorf("pg AppendMessage update: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetHistory(ctx context.Context, uid string) ([]domain.ChatMessage, error) {
	var historyJSON []byte
	const q = `select chat_history from profiles where uid = $1;`
	err := s.db.QueryRow(ctx, q, uid).Scan(&historyJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pg GetHistory: %w", err)
	}

	var history []domain.ChatMessage
	if err := json.Unmarshal(historyJSON, &history); err != nil {
		return nil, fmt.Errorf("pg GetHistory decode: %w", err)
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}
	return history, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	const q = `
select uid, email, display_name, photo_url, role, prompt_limit, prompts_used, chat_history, created_at
from profiles
where uid = $1;
`
	var (
		p           domain.UserProfile
		role        string
		historyJSON []byte
	)
	err := s.db.QueryRow(ctx, q, uid).Scan(
		&p.UID, &p.Email, &p.DisplayName, &p.PhotoURL,
		&role, &p.PromptLimit, &p.PromptsUsed, &historyJSON, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg GetProfile: %w", err)
	}

	p.Role = domain.Role(role)
	if err := json.Unmarshal(historyJSON, &p.ChatHistory); err != nil {
		return nil, fmt.Errorf("pg GetProfile decode history: %w", err)
	}
	if p.ChatHistory == nil {
		p.ChatHistory = []domain.ChatMessage{}
	}
	return &p, nil
}

func (s *PostgresStore) SetPromptLimit(ctx context.Context, uid string, limit int) error {
	const q = `update profiles set prompt_limit = $2 where uid = $1;`
	tag, err := s.db.Exec(ctx, q, uid, limit)
	if err != nil {
		return fmt.Errorf("pg SetPromptLimit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *PostgresStore) ResetPromptsUsed(ctx context.Context, uid string) error {
	const q = `update profiles set prompts_used = 0 where uid = $1;`
	tag, err := s.db.Exec(ctx, q, uid)
	if err != nil {
		return fmt.Errorf("pg ResetPromptsUsed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *PostgresStore) ResetAllQuotas(ctx context.Context) error {
	const q = `update profiles set prompts_used = 0;`
	if _, err := s.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("pg ResetAllQuotas: %w", err)
	}
	return nil
}
