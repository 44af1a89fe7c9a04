package driven

import "github.com/custodia-labs/vetdesk/internal/core/domain"

// AIConfigValidator checks an LLM provider before its settings are saved,
// so a bad key surfaces at `settings llm` rather than on the next import.
type AIConfigValidator interface {
	// ValidateLLM returns nil when no provider is set.
	ValidateLLM(config *domain.LLMSettings) error
}
