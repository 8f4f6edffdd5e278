// Package sonar implements enrich.Querier against an OpenAI-compatible
// chat-completions endpoint with server-side web search.
package sonar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/harborline/vessel-enricher/internal/enrich"
)

const defaultBaseURL = "https://api.perplexity.ai/chat/completions"

type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the chat-completions endpoint. Useful for proxies/testing.
	BaseURL string

	// Temperature is passed through to the service verbatim.
	Temperature float64

	// SearchContextSize hints how much web-search context the service should
	// gather (low, medium, high).
	SearchContextSize string

	// HTTPClient overrides the transport. The zero value uses a default
	// client with no explicit timeout.
	HTTPClient *http.Client
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("SONAR_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("sonar model is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	Temperature      float64           `json:"temperature"`
	WebSearchOptions *webSearchOptions `json:"web_search_options,omitempty"`
}

type webSearchOptions struct {
	SearchContextSize string `json:"search_context_size"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete posts one system+user message pair and returns the assistant
// content from the top choice.
//
// Any body that cannot be read as the expected choices structure comes back
// as *enrich.ShapeError carrying the stringified body.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.cfg.Temperature,
	}
	if strings.TrimSpace(c.cfg.SearchContextSize) != "" {
		req.WebSearchOptions = &webSearchOptions{SearchContextSize: c.cfg.SearchContextSize}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("sonar: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("sonar: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sonar: post: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("sonar: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &enrich.ShapeError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var payload chatResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", &enrich.ShapeError{Body: string(respBody)}
	}
	if len(payload.Choices) == 0 {
		return "", &enrich.ShapeError{Body: string(respBody)}
	}
	return payload.Choices[0].Message.Content, nil
}
