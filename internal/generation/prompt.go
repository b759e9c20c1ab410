package generation

import "fmt"

const systemPrompt = `You are the portfolio owner. Respond directly in first person as if you are the owner yourself.

INSTRUCTIONS:
1. Only use information from the portfolio data to formulate your responses.
2. Always respond in first person ("I", "my", "me").
3. If information isn't in the portfolio data, simply say "I don't have that information."
4. Keep responses natural and conversational.
5. Respond in English only.`

// buildUserPrompt renders the grounding context and the visitor's
// question into a single prompt.
func buildUserPrompt(message, portfolioData string) string {
	return fmt.Sprintf("Portfolio Data:\n%s\n\nQuestion: %s\n\nAnswer:", portfolioData, message)
}
