package driven

// Prompt names. Users can override each one with a file of the same name
// in the prompts directory.
const (
	// PromptInventorySystem is the system message of an extraction request.
	PromptInventorySystem = "inventory_system"
	// PromptInventoryExtract wraps the stock text; it has one %s verb.
	PromptInventoryExtract = "inventory_extract"
)

// PromptStore serves prompt templates, falling back to built-in defaults.
type PromptStore interface {
	Load(name string) (string, error)
	// Reload drops cached templates so the next Load reads overrides again.
	Reload()
}

// PromptStoreAware is implemented by parsers whose prompts can be overridden.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
