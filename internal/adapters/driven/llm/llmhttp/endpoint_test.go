package llmhttp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEndpoint(t *testing.T) {
	defaults := Config{BaseURL: "http://default", Model: "small", Timeout: time.Minute}

	tests := []struct {
		name        string
		cfg         Config
		wantURL     string
		wantModel   string
		wantTimeout time.Duration
	}{
		{"all defaults", Config{}, "http://default/api", "small", time.Minute},
		{"trailing slash trimmed", Config{BaseURL: "http://llm:8080/v1/"}, "http://llm:8080/v1/api", "small", time.Minute},
		{"overrides kept", Config{Model: "large", Timeout: time.Second}, "http://default/api", "large", time.Second},
		{"negative timeout", Config{Timeout: -1}, "http://default/api", "small", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEndpoint("test", tt.cfg, defaults, nil)
			assert.Equal(t, tt.wantURL, e.URL("/api"))
			assert.Equal(t, tt.wantModel, e.ModelName())
			assert.Equal(t, tt.wantTimeout, e.HTTP.Timeout)
			assert.NoError(t, e.Close())
		})
	}
}
