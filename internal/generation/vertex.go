package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// VertexAnswerer generates answers with Gemini on Vertex AI.
type VertexAnswerer struct {
	client    *genai.Client
	modelName string
}

func NewVertexAnswerer(ctx context.Context, projectID, location, modelName string) (*VertexAnswerer, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID and GCP_LOCATION must be set for the vertex provider")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexAnswerer{client: client, modelName: modelName}, nil
}

func (v *VertexAnswerer) Answer(ctx context.Context, message, portfolioData string) (string, error) {
	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   2048,
	}

	contents := []*genai.Content{
		genai.NewContentFromText(buildUserPrompt(message, portfolioData), genai.RoleUser),
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	// An empty answer is valid and streams as an empty body.
	return res.Text(), nil
}
