package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ensure CalendarAuthService implements the interface.
var _ driving.CalendarAuthService = (*CalendarAuthService)(nil)

// CalendarAuthService connects the Google Calendar mirror using the
// authorization code flow with PKCE.
type CalendarAuthService struct {
	settings   *SettingsService
	authorizer driven.CalendarAuthorizer
}

// NewCalendarAuthService creates a new calendar auth service.
func NewCalendarAuthService(settings *SettingsService, authorizer driven.CalendarAuthorizer) *CalendarAuthService {
	return &CalendarAuthService{settings: settings, authorizer: authorizer}
}

// Begin starts an authorization and returns the URL to open.
func (s *CalendarAuthService) Begin(req domain.CalendarAuthRequest) (*domain.CalendarAuthSession, error) {
	if s.authorizer == nil {
		return nil, domain.ErrNotImplemented
	}
	if req.ClientID == "" {
		return nil, domain.Invalid("client_id", "is required")
	}
	if req.ClientSecret == "" {
		return nil, domain.Invalid("client_secret", "is required")
	}
	if req.RedirectURI == "" {
		return nil, domain.Invalid("redirect_uri", "is required")
	}

	verifier, err := randomToken(verifierBytes)
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := randomToken(stateBytes)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	return &domain.CalendarAuthSession{
		Request:      req,
		AuthURL:      s.authorizer.AuthURL(oauthClient(req), state, s256Challenge(verifier)),
		State:        state,
		CodeVerifier: verifier,
	}, nil
}

// Complete checks the callback state, exchanges the code and enables the
// mirror with the resulting refresh token.
func (s *CalendarAuthService) Complete(
	ctx context.Context,
	session *domain.CalendarAuthSession,
	state, code string,
) error {
	if s.authorizer == nil {
		return domain.ErrNotImplemented
	}
	if session == nil || state == "" || state != session.State {
		return domain.Invalid("state", "does not match the authorization request")
	}
	if code == "" {
		return domain.Invalid("code", "is required")
	}

	token, err := s.authorizer.Exchange(ctx, oauthClient(session.Request), code, session.CodeVerifier)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	return s.settings.SetCalendar(domain.CalendarSettings{
		Enabled:      true,
		ClientID:     session.Request.ClientID,
		ClientSecret: session.Request.ClientSecret,
		RefreshToken: token,
		CalendarID:   session.Request.CalendarID,
	})
}

// Disconnect disables the mirror and forgets the token.
func (s *CalendarAuthService) Disconnect() error {
	return s.settings.SetCalendar(domain.CalendarSettings{})
}

func oauthClient(req domain.CalendarAuthRequest) driven.OAuthClient {
	return driven.OAuthClient{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		RedirectURI:  req.RedirectURI,
	}
}
