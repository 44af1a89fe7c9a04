package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks LLM settings before they are saved: the provider
// must be known, cloud providers need a key, and the provider must answer
// a ping within Timeout.
type ConfigValidator struct {
	Timeout time.Duration
}

// NewConfigValidator returns a validator using DefaultPingTimeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{Timeout: DefaultPingTimeout}
}

// ValidateLLM implements driven.AIConfigValidator.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil || settings.Provider == "" {
		return nil
	}
	if !settings.Provider.IsValid() {
		return fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return domain.Invalid("api_key", "%s needs an API key", settings.Provider.Description())
	}

	timeout := v.Timeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc, err := Connect(ctx, settings)
	if err != nil {
		return err
	}
	if svc != nil {
		svc.Close()
	}
	return nil
}
