package auth

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
)

// TokenVerifier validates a bearer ID token and returns the identity it
// carries. Handlers depend on this interface so tests can substitute a
// fake for the hosted provider.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (domain.Identity, error)
}

// FirebaseVerifier verifies ID tokens against Firebase Auth.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (domain.Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("verify id token: %w", err)
	}

	id := domain.Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		id.PhotoURL = picture
	}
	return id, nil
}
