// Package oauth exchanges authorization codes for Google Calendar tokens.
package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure GoogleAuthorizer implements the interface.
var _ driven.CalendarAuthorizer = (*GoogleAuthorizer)(nil)

// Scopes requested for the calendar mirror.
var Scopes = []string{calendar.CalendarEventsScope}

// GoogleAuthorizer runs the Google OAuth flow for the calendar mirror.
type GoogleAuthorizer struct {
	endpoint oauth2.Endpoint
}

// NewGoogleAuthorizer creates an authorizer for Google's OAuth endpoints.
func NewGoogleAuthorizer() *GoogleAuthorizer {
	return &GoogleAuthorizer{endpoint: google.Endpoint}
}

// NewAuthorizerWithEndpoint creates an authorizer for a custom endpoint.
func NewAuthorizerWithEndpoint(endpoint oauth2.Endpoint) *GoogleAuthorizer {
	return &GoogleAuthorizer{endpoint: endpoint}
}

// Config returns the oauth2 configuration for client.
func (a *GoogleAuthorizer) Config(client driven.OAuthClient) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		RedirectURL:  client.RedirectURI,
		Endpoint:     a.endpoint,
		Scopes:       Scopes,
	}
}

// AuthURL returns the consent page URL. Offline access with forced consent
// makes Google return a refresh token on every connection.
func (a *GoogleAuthorizer) AuthURL(client driven.OAuthClient, state, codeChallenge string) string {
	return a.Config(client).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades an authorization code for a refresh token.
func (a *GoogleAuthorizer) Exchange(
	ctx context.Context,
	client driven.OAuthClient,
	code, codeVerifier string,
) (string, error) {
	tok, err := a.Config(client).Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if tok.RefreshToken == "" {
		return "", fmt.Errorf("token exchange: no refresh token returned")
	}
	return tok.RefreshToken, nil
}
