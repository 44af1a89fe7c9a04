// Package ollama talks to a local Ollama server. No key is needed.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/llm/llmhttp"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

var _ driven.LLMService = (*Client)(nil)

// Defaults applies to empty Config fields. Local models on a laptop are
// slow, hence the long timeout.
var Defaults = llmhttp.Config{
	BaseURL: "http://localhost:11434",
	Model:   "llama3.2",
	Timeout: 5 * time.Minute,
}

type Client struct {
	llmhttp.Endpoint
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type modelOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

type chatRequest struct {
	Model    string       `json:"model"`
	Messages []message    `json:"messages"`
	Stream   bool         `json:"stream"`
	Options  modelOptions `json:"options"`
}

type chatResponse struct {
	Message    message `json:"message"`
	Done       bool    `json:"done"`
	DoneReason string  `json:"done_reason,omitempty"`
}

func New(cfg llmhttp.Config) *Client {
	return &Client{llmhttp.NewEndpoint("ollama", cfg, Defaults, nil)}
}

// Chat posts one non-streaming /api/chat request.
func (c *Client) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := chatRequest{
		Model:   c.Model,
		Options: modelOptions{NumPredict: opts.MaxTokens, Temperature: opts.Temperature},
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, message{Role: m.Role, Content: m.Content})
	}

	var resp chatResponse
	if err := c.PostJSON(ctx, c.URL("/api/chat"), req, &resp); err != nil {
		return "", err
	}
	if resp.DoneReason == "length" {
		return "", fmt.Errorf("ollama: %w", llmhttp.ErrTruncated)
	}
	return resp.Message.Content, nil
}

// Ping lists local models; it fails when the server is down.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, c.URL("/api/tags"), nil)
}
