package domain

import "time"

// AIProvider identifies the LLM backend behind free-text inventory imports.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerSpec struct {
	name    string
	cloud   bool // hosted; needs an API key
	model   string
	baseURL string // only local providers get a default endpoint
}

var providerSpecs = map[AIProvider]providerSpec{
	AIProviderOllama:    {name: "Ollama", model: "llama3.2", baseURL: "http://localhost:11434"},
	AIProviderOpenAI:    {name: "OpenAI", cloud: true, model: "gpt-4o-mini"},
	AIProviderAnthropic: {name: "Anthropic", cloud: true, model: "claude-3-5-sonnet-latest"},
}

// AllLLMProviders lists providers in the order the settings menu shows them.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

func (p AIProvider) IsValid() bool {
	_, ok := providerSpecs[p]
	return ok
}

func (p AIProvider) RequiresAPIKey() bool { return providerSpecs[p].cloud }

// IsLocal is false for unknown providers.
func (p AIProvider) IsLocal() bool { return p.IsValid() && !providerSpecs[p].cloud }

func (p AIProvider) String() string { return string(p) }

// Description is the menu label, e.g. "OpenAI (cloud)".
func (p AIProvider) Description() string {
	spec, ok := providerSpecs[p]
	switch {
	case !ok:
		return "Unknown"
	case spec.cloud:
		return spec.name + " (cloud)"
	}
	return spec.name + " (local)"
}

// DefaultModel is used when settings name a provider but no model.
func (p AIProvider) DefaultModel() string { return providerSpecs[p].model }

// DefaultBaseURL is empty for cloud providers, whose clients know their endpoint.
func (p AIProvider) DefaultBaseURL() string { return providerSpecs[p].baseURL }

// LLMSettings configure the free-text inventory parser.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	// BaseURL overrides the provider endpoint: a remote Ollama or an
	// OpenAI-compatible gateway.
	BaseURL string
	APIKey  string
}

// IsConfigured reports whether a client can be built: a known provider,
// plus a key when the provider is hosted.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && (l.APIKey != "" || !l.Provider.RequiresAPIKey())
}

// StorageDriver selects the relational backend.
type StorageDriver string

// Storage drivers.
const (
	// StorageSQLite keeps all tenants in a local SQLite file.
	StorageSQLite StorageDriver = "sqlite"

	// StoragePostgres connects to a shared PostgreSQL database.
	StoragePostgres StorageDriver = "postgres"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	return d == StorageSQLite || d == StoragePostgres
}

// StorageSettings holds database configuration.
type StorageSettings struct {
	Driver StorageDriver

	// DataDir holds the SQLite database. Empty means ~/.vetdesk/data.
	DataDir string

	// DSN is the PostgreSQL connection string.
	DSN string
}

// ServerSettings holds REST API configuration.
type ServerSettings struct {
	// Addr is the listen address, such as ":8080".
	Addr string

	// RateLimit is the sustained requests per second allowed per tenant.
	RateLimit float64

	// Burst is the token bucket size per tenant.
	Burst int
}

// CalendarSettings holds the Google Calendar mirror configuration.
type CalendarSettings struct {
	Enabled      bool
	ClientID     string
	ClientSecret string
	RefreshToken string

	// CalendarID is the calendar events are written to. Empty means "primary".
	CalendarID string
}

// IsConfigured returns true if the mirror has everything it needs to push events.
func (c CalendarSettings) IsConfigured() bool {
	return c.Enabled && c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// ImportSettings holds the inventory drop-folder configuration.
type ImportSettings struct {
	// WatchDir is scanned for <tenant-slug>/<file> drops. Empty disables the watcher.
	WatchDir string

	// Debounce delays processing a file until writes have settled.
	Debounce time.Duration
}

// AppSettings is everything stored in config.toml.
type AppSettings struct {
	LLM      LLMSettings
	Storage  StorageSettings
	Server   ServerSettings
	Calendar CalendarSettings
	Import   ImportSettings
}

// DefaultAppSettings leaves the LLM and calendar mirror unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
		Server: ServerSettings{
			Addr:      ":8080",
			RateLimit: 10,
			Burst:     20,
		},
		Calendar: CalendarSettings{
			CalendarID: "primary",
		},
		Import: ImportSettings{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// CalendarAuthRequest starts a calendar connection.
type CalendarAuthRequest struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// CalendarID is stored with the token. Empty means "primary".
	CalendarID string
}

// CalendarAuthSession is an authorization in progress.
type CalendarAuthSession struct {
	Request      CalendarAuthRequest
	AuthURL      string
	State        string
	CodeVerifier string
}
