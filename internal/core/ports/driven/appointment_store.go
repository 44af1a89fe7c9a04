package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// AppointmentStore persists appointments.
type AppointmentStore interface {
	// Save stores or updates an appointment.
	Save(ctx context.Context, appt domain.Appointment) error

	// Get retrieves an appointment by ID within a tenant.
	Get(ctx context.Context, tenantID, id string) (*domain.Appointment, error)

	// ListRange returns appointments of any status overlapping [from, to),
	// ordered by start time.
	ListRange(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Appointment, error)

	// ListByClient returns a client's appointments ordered by start time.
	ListByClient(ctx context.Context, tenantID, clientID string) ([]domain.Appointment, error)

	// ListOverdue returns scheduled or confirmed appointments, across all
	// tenants, whose end time is before cutoff.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Appointment, error)

	// ListUnpublished returns scheduled or confirmed appointments, across all
	// tenants, starting after from that have no calendar event yet.
	ListUnpublished(ctx context.Context, from time.Time, limit int) ([]domain.Appointment, error)
}
