// Package anthropic talks to the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/llm/llmhttp"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

var _ driven.LLMService = (*Client)(nil)

// Defaults applies to empty Config fields.
var Defaults = llmhttp.Config{
	BaseURL: "https://api.anthropic.com",
	Model:   "claude-3-5-sonnet-latest",
	Timeout: 2 * time.Minute,
}

// DefaultMaxTokens is sent when the caller leaves MaxTokens at zero;
// the API rejects requests without it.
const DefaultMaxTokens = 4096

const apiVersion = "2023-06-01"

type Client struct {
	llmhttp.Endpoint
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// text concatenates the text blocks, skipping tool use and the like.
func (r *messagesResponse) text() string {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

func New(cfg llmhttp.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	header := http.Header{
		"X-Api-Key":         {cfg.APIKey},
		"Anthropic-Version": {apiVersion},
	}
	return &Client{llmhttp.NewEndpoint("anthropic", cfg, Defaults, header)}, nil
}

// Chat moves system turns into the request's system field, joined by a
// blank line, since the API accepts only user and assistant messages.
func (c *Client) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := messagesRequest{
		Model:       c.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	var system []string
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, message{Role: m.Role, Content: m.Content})
	}
	req.System = strings.Join(system, "\n\n")
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, req messagesRequest) (string, error) {
	var resp messagesResponse
	if err := c.PostJSON(ctx, c.URL("/v1/messages"), req, &resp); err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("anthropic: %w at %d tokens", llmhttp.ErrTruncated, req.MaxTokens)
	}
	out := resp.text()
	if out == "" {
		return "", errors.New("anthropic: no text content returned")
	}
	return out, nil
}

// Ping asks for a single token; there is no cheaper authenticated call.
// Hitting the one-token limit is the expected outcome.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, messagesRequest{
		Model:     c.Model,
		Messages:  []message{{Role: "user", Content: "ping"}},
		MaxTokens: 1,
	})
	if errors.Is(err, llmhttp.ErrTruncated) {
		return nil
	}
	return err
}
