package driving

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// CalendarAuthService connects and disconnects the Google Calendar mirror.
type CalendarAuthService interface {
	// Begin starts an authorization and returns the URL to open.
	Begin(req domain.CalendarAuthRequest) (*domain.CalendarAuthSession, error)

	// Complete validates the callback and stores the refresh token.
	Complete(ctx context.Context, session *domain.CalendarAuthSession, state, code string) error

	// Disconnect disables the mirror and forgets the token.
	Disconnect() error
}
