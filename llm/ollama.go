package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaClient implements Builder against a local Ollama server.
type OllamaClient struct {
	Endpoint    string
	Model       string
	Temperature float64
	client      *http.Client
}

type ollamaResponse struct {
	Response   string `json:"response"`
	DoneReason string `json:"done_reason"`
}

// NewOllamaClient builds a client with sane defaults.
func NewOllamaClient(endpoint, model string) *OllamaClient {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return &OllamaClient{
		Endpoint:    endpoint,
		Model:       model,
		Temperature: 0.2,
		client: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

// SetHTTPClient overrides the transport, mainly for tests.
func (c *OllamaClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

// Call implements Builder using the non-streaming generate endpoint.
func (c *OllamaClient) Call(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model":  c.Model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": c.Temperature,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(raw))
	}
	var decoded ollamaResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("ollama response decode failed: %w", err)
	}
	return decoded.Response, nil
}

func (c *OllamaClient) httpClient() *http.Client {
	if c.client == nil {
		c.client = &http.Client{Timeout: 3 * time.Minute}
	}
	return c.client
}
