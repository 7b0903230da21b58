// Package assistant answers maintenance questions with an Ollama-backed
// language model, grounding its prompts in repair and breakdown history.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// doer abstracts the HTTP client so tests can stub Ollama responses.
type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to an Ollama server's generate API.
type Client struct {
	baseURL string
	model   string
	http    doer
}

// NewClient builds a Client for the Ollama server at baseURL, e.g.
// "http://127.0.0.1:11434".
func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Reasoning models wrap their chain of thought in <think> tags; users only
// get the text after it.
var thinkRE = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Generate sends prompt to the model and returns its cleaned response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": 0.7},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("assistant: ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("assistant: decode response: %w", err)
	}
	return strings.TrimSpace(thinkRE.ReplaceAllString(gr.Response, "")), nil
}
