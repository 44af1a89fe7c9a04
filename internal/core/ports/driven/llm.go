// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService is the chat model behind the ai inventory parser. It is
// optional: with no provider configured only the csv parser works.
// Adapters exist for OpenAI-compatible servers, Anthropic and Ollama.
type LLMService interface {
	// Chat sends the conversation and returns the assistant's reply text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)
	// ModelName identifies the model in logs and import reports.
	ModelName() string
	// Ping makes the cheapest authenticated request the provider allows.
	// Settings validation calls it before saving a provider.
	Ping(ctx context.Context) error
	Close() error
}

// ChatMessage is one turn. Role is "system", "user" or "assistant".
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tunes a request. Extraction runs at temperature 0; a zero
// MaxTokens lets the adapter pick its default.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}
