// Package ai wraps the Gemini text-completion API behind a small
// interface and supplies deterministic fallback replies for when the
// API is unreachable.
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-1.5-flash"

// Turn is one prior exchange in the conversation history.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Generator produces an assistant reply from a system prompt, prior
// turns and the new user message.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error)
}

// GeminiClient talks to the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a Gemini-backed generator. The model defaults
// to DefaultModel when empty.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the prompt, the last turns and the user message to the
// model and returns its text reply.
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+2)
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: systemPrompt}},
	})
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: userMessage}},
	})

	config := &genai.GenerateContentConfig{
		Temperature:     ptr[float32](0.7),
		TopK:            ptr[float32](40),
		TopP:            ptr[float32](0.95),
		MaxOutputTokens: 1024,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func ptr[T any](v T) *T { return &v }
