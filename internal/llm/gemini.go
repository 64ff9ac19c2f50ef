// Package llm wraps the Gemini client behind the single text-in/text-out
// call the pipeline components depend on.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini is the concrete LLM collaborator.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client bound to one model. The API key comes from the
// application config, not from ambient environment lookup.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// GenerateText sends one prompt and returns the raw model text. Callers treat
// the output as untrusted and sanitize before parsing.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenerateText: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GenerateText: empty response from model")
	}
	return text, nil
}
