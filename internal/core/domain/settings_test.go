package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	for _, p := range AllLLMProviders() {
		assert.True(t, p.IsValid(), p)
		assert.NotEqual(t, "Unknown", p.Description())
		assert.NotEmpty(t, p.DefaultModel(), p)
	}
	assert.False(t, AIProvider("gemini").IsValid())
	assert.False(t, AIProvider("gemini").IsLocal())
	assert.Equal(t, "Unknown", AIProvider("gemini").Description())
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		want     bool
	}{
		{"empty", LLMSettings{}, false},
		{"ollama without key", LLMSettings{Provider: AIProviderOllama}, true},
		{"openai without key", LLMSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, StorageSQLite, s.Storage.Driver)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Positive(t, s.Server.RateLimit)
	assert.Positive(t, s.Server.Burst)
	assert.Equal(t, "primary", s.Calendar.CalendarID)
	assert.False(t, s.Calendar.IsConfigured())
}

func TestCalendarSettings_IsConfigured(t *testing.T) {
	c := CalendarSettings{Enabled: true, ClientID: "id", ClientSecret: "secret"}
	assert.False(t, c.IsConfigured())

	c.RefreshToken = "refresh"
	assert.True(t, c.IsConfigured())

	c.Enabled = false
	assert.False(t, c.IsConfigured())
}

func TestStorageDriver_IsValid(t *testing.T) {
	assert.True(t, StorageSQLite.IsValid())
	assert.True(t, StoragePostgres.IsValid())
	assert.False(t, StorageDriver("mysql").IsValid())
}
