package driven

// ConfigStore holds flat dot-notation settings ("llm.provider",
// "scheduler.calendar_push.interval"). Values are whatever the backing
// format decodes to; callers coerce types themselves.
type ConfigStore interface {
	Get(key string) (any, bool)

	// Set writes one value and persists it.
	Set(key string, value any) error

	// SetMany writes several values with a single persist.
	SetMany(values map[string]any) error

	// Unset removes key. Removing a missing key is not an error.
	Unset(key string) error

	// Path is where the settings live, for display.
	Path() string
}
