package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Completer is the narrow capability the synthesizer needs from a
// language model: one prompt in, one text out.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeminiCompleter generates completions with the Google Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(client *genai.Client, model string) *GeminiCompleter {
	return &GeminiCompleter{client: client, model: model}
}

// Complete implements Completer with a single-turn generation; the agent
// keeps no conversation memory across queries.
func (g *GeminiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		contents := genai.Text(systemPrompt)
		if len(contents) > 0 {
			config.SystemInstruction = contents[0]
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
