// Package google mirrors appointments to a Google Calendar.
package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.CalendarPublisher = (*Publisher)(nil)

// sourceKey tags events created by vetdesk in their private properties.
const sourceKey = "vetdesk"

// Config holds the Calendar connection settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string

	// Endpoint and HTTPClient override the API base URL and transport.
	// A non-nil HTTPClient is used as is, without OAuth.
	Endpoint   string
	HTTPClient *http.Client

	RequestsPerSecond float64
	Burst             int
}

// Publisher writes appointments as Calendar events.
type Publisher struct {
	events     *calendar.EventsService
	calendarID string
	limiter    *RateLimiter
}

// FromSettings creates a publisher from the calendar settings.
// Returns ErrCalendarUnavailable when the mirror is not configured.
func FromSettings(ctx context.Context, s domain.CalendarSettings) (*Publisher, error) {
	if !s.IsConfigured() {
		return nil, domain.ErrCalendarUnavailable
	}
	return New(ctx, Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RefreshToken: s.RefreshToken,
		CalendarID:   s.CalendarID,
	})
}

// New creates a publisher. The refresh token is exchanged for access
// tokens on demand.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	var opts []option.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	} else {
		if cfg.RefreshToken == "" {
			return nil, fmt.Errorf("calendar: refresh token is required: %w", domain.ErrAuthRequired)
		}
		oc := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     googleoauth.Endpoint,
			Scopes:       []string{calendar.CalendarEventsScope},
		}
		opts = append(opts, option.WithTokenSource(oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	return &Publisher{
		events:     svc.Events,
		calendarID: cfg.CalendarID,
		limiter:    NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}, nil
}

// Publish creates the event, or updates it when it has an ID. An update of
// an event that was removed from the calendar recreates it.
func (p *Publisher) Publish(ctx context.Context, event driven.CalendarEvent) (string, error) {
	body := toEvent(event)

	if event.ID != "" {
		var updated *calendar.Event
		err := p.call(ctx, func() (err error) {
			updated, err = p.events.Update(p.calendarID, event.ID, body).Context(ctx).Do()
			return err
		})
		if err == nil {
			return updated.Id, nil
		}
		if !isGone(err) {
			return "", wrapError(err)
		}
		logger.Info("calendar event %s is gone, recreating", event.ID)
	}

	var created *calendar.Event
	err := p.call(ctx, func() (err error) {
		created, err = p.events.Insert(p.calendarID, body).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", wrapError(err)
	}
	return created.Id, nil
}

// Delete removes an event. A missing event is not an error.
func (p *Publisher) Delete(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	err := p.call(ctx, func() error {
		return p.events.Delete(p.calendarID, eventID).Context(ctx).Do()
	})
	if err != nil && !isGone(err) {
		return wrapError(err)
	}
	return nil
}

// call waits for the limiter and records any rate limit response.
func (p *Publisher) call(ctx context.Context, fn func() error) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	err := fn()
	if d, limited := retryAfter(err); limited {
		p.limiter.Backoff(d)
	}
	return err
}

func toEvent(e driven.CalendarEvent) *calendar.Event {
	return &calendar.Event{
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       eventTime(e.Start, e.Timezone),
		End:         eventTime(e.End, e.Timezone),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{sourceKey: "1"},
		},
	}
}

func eventTime(t time.Time, tz string) *calendar.EventDateTime {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			t = t.In(loc)
		}
	}
	return &calendar.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: tz}
}
