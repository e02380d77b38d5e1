package llm

import (
	"context"
	"errors"

	genai "google.golang.org/genai"
)

// ErrEmptyResponse indicates the model returned no candidates.
var ErrEmptyResponse = errors.New("model returned an empty response")

// GeminiClient implements Builder on the official genai client. The API key
// is read from the environment by the underlying client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient connects to the Gemini API.
func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// Call implements Builder.
func (g *GeminiClient) Call(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
