// Package ai builds the LLM service used by the free-text inventory parser.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/vetdesk/internal/adapters/driven/llm/llmhttp"
	"github.com/custodia-labs/vetdesk/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/vetdesk/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// DefaultPingTimeout bounds the connectivity check made at startup.
const DefaultPingTimeout = 5 * time.Second

const fixHint = "run 'vetdesk settings llm' to fix"

// InitResult is the LLM wiring handed to the parser registry.
// A nil LLMService leaves the ai parser registered but unusable.
type InitResult struct {
	LLMService  driven.LLMService
	PromptStore driven.PromptStore
	Warnings    []string
}

// Close releases the LLM client, if any.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init connects to the configured provider. Failures become warnings so
// the desk starts without AI imports instead of refusing to start.
func Init(ctx context.Context, settings *domain.LLMSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{PromptStore: prompts}

	ctx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	svc, err := Connect(ctx, settings)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}
	result.LLMService = svc
	return result
}

// Connect creates the provider client and pings it. It returns nil, nil when
// no provider is configured; other failures wrap domain.ErrLLMUnavailable.
func Connect(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := New(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w; %s", domain.ErrLLMUnavailable, err, fixHint)
	}
	if svc == nil {
		return nil, nil
	}
	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w); %s",
			domain.ErrLLMUnavailable, settings.Provider, err, fixHint)
	}
	return svc, nil
}

// New creates the client for settings.Provider without contacting it.
// Incomplete settings (no provider, or a cloud provider without a key) yield nil.
func New(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	cfg := llmhttp.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	}
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollama.New(cfg), nil
	case domain.AIProviderOpenAI:
		c, err := openai.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case domain.AIProviderAnthropic:
		c, err := anthropic.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
}
