// Package llm provides the OpenAI-compatible chat completion client that
// backs crew execution.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/typeutil"
)

const defaultTimeout = 120 * time.Second

// Client calls an OpenAI-compatible /chat/completions endpoint. It
// implements the crew LLMProvider contract.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Client from the API configuration. A missing API key
// is a construction error so that deployments fail at startup rather than
// on the first session.
func NewClient(cfg config.APIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm client requires an api key")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends one chat completion request and returns the assistant
// content. Recognized options: "temperature" (number), "max_tokens" (number).
func (c *Client) Generate(ctx context.Context, model string, prompt string, options map[string]any) (string, error) {
	reqBody := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if t, ok := typeutil.SafeFloat64(options["temperature"]); ok {
		reqBody.Temperature = t
	}
	if n, ok := typeutil.SafeFloat64(options["max_tokens"]); ok {
		reqBody.MaxTokens = int(n)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("chat completion failed (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completion failed (status %d)", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
