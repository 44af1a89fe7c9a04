package llmhttp

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// ErrTruncated means the provider stopped at the token limit. A cut-off
// extraction reply is unterminated JSON, so callers treat it as a failure.
var ErrTruncated = errors.New("reply truncated by the token limit")

// Config is what every provider needs to reach its API. Ollama ignores APIKey.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// orDefault fills the empty fields of c from d.
func (c Config) orDefault(d Config) Config {
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// Endpoint is a provider API root plus the model named in every request.
// Provider clients embed it for ModelName and Close.
type Endpoint struct {
	*Client
	BaseURL string
	Model   string
}

// NewEndpoint applies defaults to cfg and builds the retrying client.
func NewEndpoint(provider string, cfg, defaults Config, header http.Header) Endpoint {
	cfg = cfg.orDefault(defaults)
	return Endpoint{
		Client:  New(provider, cfg.Timeout, header),
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Model:   cfg.Model,
	}
}

// URL joins path onto the API root.
func (e Endpoint) URL(path string) string {
	return e.BaseURL + path
}

func (e Endpoint) ModelName() string { return e.Model }

// Close drops idle keep-alive connections.
func (e Endpoint) Close() error {
	e.HTTP.CloseIdleConnections()
	return nil
}
