package services

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyStorageDriver    = "storage.driver"
	keyStorageDataDir   = "storage.data_dir"
	keyStorageDSN       = "storage.dsn"
	keyServerAddr       = "server.addr"
	keyServerRateLimit  = "server.rate_limit"
	keyServerBurst      = "server.burst"
	keyCalendarEnabled  = "calendar.enabled"
	keyCalendarClientID = "calendar.client_id"
	keyCalendarSecret   = "calendar.client_secret"
	keyCalendarToken    = "calendar.refresh_token"
	keyCalendarID       = "calendar.calendar_id"
	keyImportWatchDir   = "import.watch_dir"
	keyImportDebounce   = "import.debounce"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// ConfigPath returns the config file location.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.str(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.str(keyLLMAPIKey),
		},
		Storage: domain.StorageSettings{
			Driver:  s.getDriver(defaults.Storage.Driver),
			DataDir: s.str(keyStorageDataDir),
			DSN:     s.str(keyStorageDSN),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(keyServerAddr, defaults.Server.Addr),
			RateLimit: s.getFloat(keyServerRateLimit, defaults.Server.RateLimit),
			Burst:     s.getInt(keyServerBurst, defaults.Server.Burst),
		},
		Calendar: domain.CalendarSettings{
			Enabled:      s.getBool(keyCalendarEnabled, defaults.Calendar.Enabled),
			ClientID:     s.str(keyCalendarClientID),
			ClientSecret: s.str(keyCalendarSecret),
			RefreshToken: s.str(keyCalendarToken),
			CalendarID:   s.getString(keyCalendarID, defaults.Calendar.CalendarID),
		},
		Import: domain.ImportSettings{
			WatchDir: s.str(keyImportWatchDir),
			Debounce: s.getDuration(keyImportDebounce, defaults.Import.Debounce),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyLLMProvider:      settings.LLM.Provider.String(),
		keyLLMModel:         settings.LLM.Model,
		keyLLMBaseURL:       settings.LLM.BaseURL,
		keyStorageDriver:    string(settings.Storage.Driver),
		keyStorageDataDir:   settings.Storage.DataDir,
		keyStorageDSN:       settings.Storage.DSN,
		keyServerAddr:       settings.Server.Addr,
		keyServerRateLimit:  settings.Server.RateLimit,
		keyServerBurst:      settings.Server.Burst,
		keyCalendarEnabled:  settings.Calendar.Enabled,
		keyCalendarClientID: settings.Calendar.ClientID,
		keyCalendarID:       settings.Calendar.CalendarID,
		keyImportWatchDir:   settings.Import.WatchDir,
		keyImportDebounce:   settings.Import.Debounce.String(),
	}

	// Secrets are only written when present so a partial update never wipes them.
	for key, val := range map[string]string{
		keyLLMAPIKey:      settings.LLM.APIKey,
		keyCalendarSecret: settings.Calendar.ClientSecret,
		keyCalendarToken:  settings.Calendar.RefreshToken,
	} {
		if val != "" {
			values[key] = val
		}
	}

	if err := s.configStore.SetMany(values); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// SetLLMProvider switches the import LLM. An empty model takes the
// provider default. A local provider keeps a custom endpoint across the
// switch; a cloud provider always uses its own.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	llm := domain.LLMSettings{Provider: provider, Model: cmp.Or(model, provider.DefaultModel()), APIKey: apiKey}
	switch {
	case !provider.IsValid():
		return fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, provider)
	case !llm.IsConfigured():
		return domain.Invalid("api_key", "%s needs an API key", provider.Description())
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if provider.IsLocal() {
		llm.BaseURL = cmp.Or(settings.LLM.BaseURL, provider.DefaultBaseURL())
	}
	settings.LLM = llm
	return s.Save(settings)
}

// SetStorage selects the storage backend. PostgreSQL needs a DSN.
func (s *SettingsService) SetStorage(driver domain.StorageDriver, dataDir, dsn string) error {
	if !driver.IsValid() {
		return fmt.Errorf("invalid storage driver: %s", driver)
	}
	if driver == domain.StoragePostgres && dsn == "" {
		return fmt.Errorf("DSN required for %s", driver)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage = domain.StorageSettings{Driver: driver, DataDir: dataDir, DSN: dsn}
	return s.Save(settings)
}

// SetCalendar configures the Google Calendar mirror.
func (s *SettingsService) SetCalendar(cfg domain.CalendarSettings) error {
	if cfg.Enabled && (cfg.ClientID == "" || cfg.ClientSecret == "") {
		return fmt.Errorf("calendar mirror requires a client ID and secret")
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = domain.DefaultAppSettings().Calendar.CalendarID
	}
	// Keep the stored token unless a new one is supplied.
	if cfg.RefreshToken == "" {
		cfg.RefreshToken = settings.Calendar.RefreshToken
	}
	settings.Calendar = cfg
	if !cfg.Enabled {
		if err := s.configStore.Unset(keyCalendarToken); err != nil {
			return fmt.Errorf("clear calendar token: %w", err)
		}
		settings.Calendar.RefreshToken = ""
	}
	return s.Save(settings)
}

// Validate checks the current settings are coherent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Storage.Driver == domain.StoragePostgres && settings.Storage.DSN == "" {
		return fmt.Errorf("storage driver %q requires a DSN", settings.Storage.Driver)
	}
	if settings.Server.RateLimit <= 0 || settings.Server.Burst <= 0 {
		return fmt.Errorf("server rate limit and burst must be positive")
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is missing its API key", settings.LLM.Provider.Description())
	}
	if settings.Calendar.Enabled && !settings.Calendar.IsConfigured() {
		return fmt.Errorf("calendar mirror is enabled but not connected; run 'vetdesk calendar connect'")
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Config readers. A missing key or a value of the wrong type falls back to
// the default. TOML decodes integers as int64.

func (s *SettingsService) raw(key string) any {
	v, _ := s.configStore.Get(key)
	return v
}

func (s *SettingsService) str(key string) string {
	v, _ := s.raw(key).(string)
	return v
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.str(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	var n int
	switch v := s.raw(key).(type) {
	case int64:
		n = int(v)
	case int:
		n = v
	case float64:
		n = int(v)
	}
	if n == 0 {
		return defaultVal
	}
	return n
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	var f float64
	switch v := s.raw(key).(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	}
	if f == 0 {
		return defaultVal
	}
	return f
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if b, ok := s.raw(key).(bool); ok {
		return b
	}
	return defaultVal
}

// getDuration reads "15m" style strings or a bare integer of seconds.
// Negative and zero durations fall back to the default.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	var d time.Duration
	switch v := s.raw(key).(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return defaultVal
		}
		d = parsed
	case int64:
		d = time.Duration(v) * time.Second
	case int:
		d = time.Duration(v) * time.Second
	}
	if d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.str(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	driver := domain.StorageDriver(strings.ToLower(s.str(keyStorageDriver)))
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}

// schedulerKeys maps task IDs to their TOML table under [scheduler].
var schedulerKeys = map[string]string{
	domain.TaskIDNoShowSweep:    "no_show_sweep",
	domain.TaskIDLowStockReport: "low_stock_report",
	domain.TaskIDCalendarPush:   "calendar_push",
}

// GetSchedulerConfig overlays [scheduler] settings on the defaults.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()
	cfg.Enabled = s.getBool("scheduler.enabled", cfg.Enabled)

	for taskID, table := range schedulerKeys {
		prefix := "scheduler." + table + "."
		task := cfg.TaskConfigs[taskID]
		task.Enabled = s.getBool(prefix+"enabled", task.Enabled)
		task.Interval = s.getDuration(prefix+"interval", task.Interval)
		cfg.TaskConfigs[taskID] = task
	}
	return cfg
}
