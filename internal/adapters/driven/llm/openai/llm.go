// Package openai talks to the OpenAI chat completions API, or any server
// that speaks it.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/llm/llmhttp"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

var _ driven.LLMService = (*Client)(nil)

// Defaults applies to empty Config fields.
var Defaults = llmhttp.Config{
	BaseURL: "https://api.openai.com/v1",
	Model:   "gpt-4o-mini",
	Timeout: 2 * time.Minute,
}

type Client struct {
	llmhttp.Endpoint
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// New returns a client authenticating with a bearer key.
func New(cfg llmhttp.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	header := http.Header{"Authorization": {"Bearer " + cfg.APIKey}}
	return &Client{llmhttp.NewEndpoint("openai", cfg, Defaults, header)}, nil
}

// Chat returns the first choice. Roles pass through unchanged.
func (c *Client) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := completionRequest{
		Model:       c.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, message{Role: m.Role, Content: m.Content})
	}

	var resp completionResponse
	if err := c.PostJSON(ctx, c.URL("/chat/completions"), req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no response choices returned")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		return "", fmt.Errorf("openai: %w", llmhttp.ErrTruncated)
	}
	return choice.Message.Content, nil
}

// Ping lists models, which checks the key without running inference.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, c.URL("/models"), nil)
}
