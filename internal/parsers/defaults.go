package parsers

import (
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/parsers/ai"
	"github.com/custodia-labs/vetdesk/internal/parsers/csv"
)

// RegisterDefaults registers the built-in parsers. llm and prompts may be
// nil; the ai parser then reports domain.ErrLLMUnavailable on use.
func RegisterDefaults(r *Registry, llm driven.LLMService, prompts driven.PromptStore) {
	r.Register(csv.New())

	p := ai.New(llm)
	if prompts != nil {
		p.SetPromptStore(prompts)
	}
	r.Register(p)
}

// NewDefaultRegistry returns a registry with the built-in parsers.
func NewDefaultRegistry(llm driven.LLMService, prompts driven.PromptStore) *Registry {
	r := NewRegistry()
	RegisterDefaults(r, llm, prompts)
	return r
}
