package driving

import "github.com/custodia-labs/vetdesk/internal/core/domain"

// SettingsService reads and writes config.toml. Setters save immediately;
// running servers pick changes up on restart.
type SettingsService interface {
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error
	GetDefaults() domain.AppSettings
	// ConfigPath is the file settings are saved to.
	ConfigPath() string

	// SetLLMProvider fills in the default model and base URL when empty.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error
	SetStorage(driver domain.StorageDriver, dataDir, dsn string) error
	SetCalendar(cfg domain.CalendarSettings) error

	// Validate checks the saved settings are coherent without network calls.
	Validate() error
	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error

	GetSchedulerConfig() domain.SchedulerConfig
}
