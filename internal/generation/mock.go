package generation

import (
	"context"
	"fmt"
)

// MockAnswerer is a deterministic Answerer for tests and local
// development without generation credentials.
type MockAnswerer struct{}

func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

func (m *MockAnswerer) Answer(ctx context.Context, message, portfolioData string) (string, error) {
	return fmt.Sprintf("You asked %q. I answer from my portfolio, which is %d characters long.", message, len(portfolioData)), nil
}
