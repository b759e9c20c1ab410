// Package generation wraps the hosted answer generation service. The
// relay treats it as a single-shot request/response call; streaming to
// the browser is simulated downstream.
package generation

import "context"

// Answerer produces one complete natural-language answer to a visitor's
// question, grounded in the portfolio document.
type Answerer interface {
	Answer(ctx context.Context, message, portfolioData string) (string, error)
}
