package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

type mockAIConfigValidator struct {
	llmErr error
	seen   *domain.LLMSettings
}

func (m *mockAIConfigValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	m.seen = cfg
	return m.llmErr
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "openai")
	_ = store.Set("llm.model", "gpt-4o")
	_ = store.Set("llm.api_key", "sk-test")
	_ = store.Set("storage.driver", "POSTGRES")
	_ = store.Set("storage.dsn", "postgres://vet@localhost/vetdesk")
	_ = store.Set("server.addr", "127.0.0.1:9090")
	_ = store.Set("server.rate_limit", int64(25))
	_ = store.Set("server.burst", int64(50))
	_ = store.Set("calendar.enabled", true)
	_ = store.Set("calendar.calendar_id", "clinic@group.calendar.google.com")
	_ = store.Set("import.watch_dir", "/srv/drops")
	_ = store.Set("import.debounce", "2s")

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)
	assert.Equal(t, domain.StoragePostgres, settings.Storage.Driver)
	assert.Equal(t, "postgres://vet@localhost/vetdesk", settings.Storage.DSN)
	assert.Equal(t, "127.0.0.1:9090", settings.Server.Addr)
	assert.InDelta(t, 25.0, settings.Server.RateLimit, 0.001)
	assert.Equal(t, 50, settings.Server.Burst)
	assert.True(t, settings.Calendar.Enabled)
	assert.Equal(t, "clinic@group.calendar.google.com", settings.Calendar.CalendarID)
	assert.Equal(t, "/srv/drops", settings.Import.WatchDir)
	assert.Equal(t, 2*time.Second, settings.Import.Debounce)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "gemini")
	_ = store.Set("storage.driver", "mysql")
	_ = store.Set("import.debounce", "soon")

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Storage.Driver, settings.Storage.Driver)
	assert.Equal(t, defaults.Import.Debounce, settings.Import.Debounce)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	want := domain.DefaultAppSettings()
	want.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2", BaseURL: "http://ollama:11434"}
	want.Server.Burst = 40
	want.Import = domain.ImportSettings{WatchDir: "/srv/drops", Debounce: time.Second}

	require.NoError(t, service.Save(&want))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestSettingsService_SaveKeepsSecrets(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.api_key", "sk-keep")
	_ = store.Set("calendar.refresh_token", "rt-keep")
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	key, _ := store.Get("llm.api_key")
	assert.Equal(t, "sk-keep", key)
	token, _ := store.Get("calendar.refresh_token")
	assert.Equal(t, "rt-keep", token)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	tests := []struct {
		name        string
		provider    domain.AIProvider
		model       string
		apiKey      string
		wantErr     bool
		wantModel   string
		wantBaseURL string
	}{
		{name: "ollama default model", provider: domain.AIProviderOllama, wantModel: "llama3.2", wantBaseURL: "http://localhost:11434"},
		{name: "openai custom model", provider: domain.AIProviderOpenAI, model: "gpt-4o", apiKey: "sk-1", wantModel: "gpt-4o"},
		{name: "anthropic default model", provider: domain.AIProviderAnthropic, apiKey: "sk-2", wantModel: "claude-3-5-sonnet-latest"},
		{name: "cloud provider without key", provider: domain.AIProviderOpenAI, wantErr: true},
		{name: "unknown provider", provider: "gemini", apiKey: "k", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			err := service.SetLLMProvider(tt.provider, tt.model, tt.apiKey)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.LLM.Provider)
			assert.Equal(t, tt.wantModel, settings.LLM.Model)
			assert.Equal(t, tt.wantBaseURL, settings.LLM.BaseURL)
			assert.Equal(t, tt.apiKey, settings.LLM.APIKey)
		})
	}
}

func TestSettingsService_SetLLMProvider_ClearsBaseURLForCloud(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))
	require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "", "sk-1"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Empty(t, settings.LLM.BaseURL)
}

func TestSettingsService_SetStorage(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Error(t, service.SetStorage("mysql", "", ""))
	assert.Error(t, service.SetStorage(domain.StoragePostgres, "", ""))

	require.NoError(t, service.SetStorage(domain.StoragePostgres, "", "postgres://localhost/vetdesk"))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StoragePostgres, settings.Storage.Driver)
	assert.Equal(t, "postgres://localhost/vetdesk", settings.Storage.DSN)

	require.NoError(t, service.SetStorage(domain.StorageSQLite, "/var/lib/vetdesk", ""))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageSQLite, settings.Storage.Driver)
	assert.Equal(t, "/var/lib/vetdesk", settings.Storage.DataDir)
	assert.Empty(t, settings.Storage.DSN)
}

func TestSettingsService_SetCalendar(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	assert.Error(t, service.SetCalendar(domain.CalendarSettings{Enabled: true, ClientID: "id"}))

	require.NoError(t, service.SetCalendar(domain.CalendarSettings{
		Enabled: true, ClientID: "id", ClientSecret: "secret", RefreshToken: "rt-1",
	}))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.True(t, settings.Calendar.IsConfigured())
	assert.Equal(t, "primary", settings.Calendar.CalendarID)

	// A later update without a token keeps the stored one.
	require.NoError(t, service.SetCalendar(domain.CalendarSettings{
		Enabled: true, ClientID: "id", ClientSecret: "secret", CalendarID: "vet@example.com",
	}))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, "rt-1", settings.Calendar.RefreshToken)
	assert.Equal(t, "vet@example.com", settings.Calendar.CalendarID)

	require.NoError(t, service.SetCalendar(domain.CalendarSettings{}))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.False(t, settings.Calendar.Enabled)
	assert.Empty(t, settings.Calendar.RefreshToken)
	_, exists := store.Get("calendar.refresh_token")
	assert.False(t, exists)
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{name: "defaults", values: nil},
		{name: "postgres without dsn", values: map[string]any{"storage.driver": "postgres"}, wantErr: true},
		{name: "negative rate limit", values: map[string]any{"server.rate_limit": -1.0}, wantErr: true},
		{name: "cloud llm without key", values: map[string]any{"llm.provider": "anthropic"}, wantErr: true},
		{name: "ollama", values: map[string]any{"llm.provider": "ollama"}},
		{name: "calendar not connected", values: map[string]any{"calendar.enabled": true}, wantErr: true},
		{name: "calendar connected", values: map[string]any{
			"calendar.enabled": true, "calendar.client_id": "id",
			"calendar.client_secret": "s", "calendar.refresh_token": "rt",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			for k, v := range tt.values {
				require.NoError(t, store.Set(k, v))
			}
			err := NewSettingsService(store, nil).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsService_ValidateLLMConfig(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "ollama")

	assert.NoError(t, NewSettingsService(store, nil).ValidateLLMConfig(), "nil validator skips the check")

	validator := &mockAIConfigValidator{}
	require.NoError(t, NewSettingsService(store, validator).ValidateLLMConfig())
	require.NotNil(t, validator.seen)
	assert.Equal(t, domain.AIProviderOllama, validator.seen.Provider)

	failing := &mockAIConfigValidator{llmErr: assert.AnError}
	assert.ErrorIs(t, NewSettingsService(store, failing).ValidateLLMConfig(), assert.AnError)
}

func TestSettingsService_GetSchedulerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewSettingsService(memory.NewConfigStore(), nil).GetSchedulerConfig()
		assert.Equal(t, domain.DefaultSchedulerConfig(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("scheduler.enabled", false)
		_ = store.Set("scheduler.no_show_sweep.interval", "5m")
		_ = store.Set("scheduler.calendar_push.enabled", false)
		_ = store.Set("scheduler.low_stock_report.interval", "-1h")

		cfg := NewSettingsService(store, nil).GetSchedulerConfig()

		assert.False(t, cfg.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.GetTaskConfig(domain.TaskIDNoShowSweep).Interval)
		assert.False(t, cfg.GetTaskConfig(domain.TaskIDCalendarPush).Enabled)
		assert.Equal(t, 24*time.Hour, cfg.GetTaskConfig(domain.TaskIDLowStockReport).Interval, "invalid interval ignored")
	})

	t.Run("interval in seconds", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("scheduler.calendar_push.interval", int64(90))
		_ = store.Set("scheduler.no_show_sweep.enabled", "no")

		cfg := NewSettingsService(store, nil).GetSchedulerConfig()

		assert.Equal(t, 90*time.Second, cfg.GetTaskConfig(domain.TaskIDCalendarPush).Interval)
		assert.True(t, cfg.GetTaskConfig(domain.TaskIDNoShowSweep).Enabled, "non-bool ignored")
	})
}

func TestSettingsService_ConfigPath(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil)
	assert.Equal(t, ":memory:", svc.ConfigPath())
}

type failingConfigStore struct{ *memory.ConfigStore }

func (failingConfigStore) SetMany(map[string]any) error { return assert.AnError }

func TestSettingsService_SaveWritesOnce(t *testing.T) {
	store := failingConfigStore{memory.NewConfigStore()}
	settings := domain.DefaultAppSettings()

	err := NewSettingsService(store, nil).Save(&settings)

	assert.ErrorIs(t, err, assert.AnError)
	_, written := store.Get("llm.provider")
	assert.False(t, written, "nothing is written piecemeal")
}
