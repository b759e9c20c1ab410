package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

const usersCollection = "users"

// FirestoreStore persists profiles as documents under users/{uid}.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) userDoc(uid string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(uid)
}

func (s *FirestoreStore) GetOrCreateProfile(ctx context.Context, id domain.Identity) (*domain.UserProfile, error) {
	ref := s.userDoc(id.UID)

	var out *domain.UserProfile
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		if snap != nil && snap.Exists() {
			var p domain.UserProfile
			if err := snap.DataTo(&p); err != nil {
				return fmt.Errorf("decode profile: %w", err)
			}
			out = &p
			return nil
		}

		p := defaultProfile(id)
		out = p
		// Zero CreatedAt lets the serverTimestamp tag assign it on write.
		return tx.Set(ref, p)
	})
	if err != nil {
		return nil, fmt.Errorf("firestore GetOrCreateProfile: %w", err)
	}
	return out, nil
}

func (s *FirestoreStore) AppendMessage(ctx context.Context, uid string, msg domain.ChatMessage) error {
	ref := s.userDoc(uid)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		var p domain.UserProfile
		if snap != nil && snap.Exists() {
			if err := snap.DataTo(&p); err != nil {
				return fmt.Errorf("decode profile: %w", err)
			}
		} else {
			// Appending against a missing profile creates one with full
			// defaults, same as the get-or-create path.
			p = *defaultProfile(domain.Identity{UID: uid})
		}

		p.ChatHistory = domain.Truncate(append(p.ChatHistory, msg))
		if msg.CountsAgainstQuota() {
			p.PromptsUsed++
		}
		return tx.Set(ref, &p)
	})
	if err != nil {
		return fmt.Errorf("firestore AppendMessage: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetHistory(ctx context.Context, uid string) ([]domain.ChatMessage, error) {
	snap, err := s.userDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []domain.ChatMessage{}, nil
		}
		return nil, fmt.Errorf("firestore GetHistory: %w", err)
	}

	var p domain.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.ChatHistory == nil {
		return []domain.ChatMessage{}, nil
	}
	return p.ChatHistory, nil
}

func (s *FirestoreStore) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	snap, err := s.userDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("firestore GetProfile: %w", err)
	}

	var p domain.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (s *FirestoreStore) SetPromptLimit(ctx context.Context, uid string, limit int) error {
	_, err := s.userDoc(uid).Update(ctx, []firestore.Update{
		{Path: "promptLimit", Value: limit},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore SetPromptLimit: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ResetPromptsUsed(ctx context.Context, uid string) error {
	_, err := s.userDoc(uid).Update(ctx, []firestore.Update{
		{Path: "promptsUsed", Value: 0},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore ResetPromptsUsed: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ResetAllQuotas(ctx context.Context) error {
	iter := s.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("firestore ResetAllQuotas: %w", err)
		}
		if _, err := snap.Ref.Update(ctx, []firestore.Update{
			{Path: "promptsUsed", Value: 0},
		}); err != nil {
			return fmt.Errorf("firestore ResetAllQuotas %s: %w", snap.Ref.ID, err)
		}
	}
	return nil
}
