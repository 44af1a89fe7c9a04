package driven

import (
	"context"
	"time"
)

// CalendarEvent is an appointment as seen by an external calendar.
type CalendarEvent struct {
	// ID is the external event ID; empty creates a new event.
	ID string

	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Timezone    string
}

// CalendarPublisher mirrors appointments to an external calendar.
// This is an optional service; when nil, appointments are not mirrored.
type CalendarPublisher interface {
	// Publish creates or updates the event and returns its ID.
	Publish(ctx context.Context, event CalendarEvent) (string, error)

	// Delete removes an event. Deleting a missing event is not an error.
	Delete(ctx context.Context, eventID string) error
}

// OAuthClient identifies an OAuth application and its loopback redirect.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// CalendarAuthorizer runs the OAuth authorization code flow (with PKCE)
// that grants access to the calendar.
type CalendarAuthorizer interface {
	// AuthURL returns the consent page URL the user opens in a browser.
	AuthURL(client OAuthClient, state, codeChallenge string) string

	// Exchange trades an authorization code for a refresh token.
	Exchange(ctx context.Context, client OAuthClient, code, codeVerifier string) (string, error)
}
