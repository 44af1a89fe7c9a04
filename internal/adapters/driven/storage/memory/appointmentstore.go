package memory

import (
	"context"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure AppointmentStore implements the interface.
var _ driven.AppointmentStore = (*AppointmentStore)(nil)

// AppointmentStore is an in-memory implementation of driven.AppointmentStore.
type AppointmentStore struct {
	table *tenantTable[domain.Appointment]
}

// NewAppointmentStore creates a new in-memory appointment store.
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{table: newTenantTable(
		func(a *domain.Appointment) string { return a.ID },
		func(a *domain.Appointment) string { return a.TenantID },
		func(a, b *domain.Appointment) bool {
			if !a.Start.Equal(b.Start) {
				return a.Start.Before(b.Start)
			}
			return a.ID < b.ID
		},
	)}
}

// Save stores or updates an appointment.
func (s *AppointmentStore) Save(_ context.Context, appt domain.Appointment) error {
	s.table.put(appt)
	return nil
}

// Get retrieves an appointment by ID within a tenant.
func (s *AppointmentStore) Get(_ context.Context, tenantID, id string) (*domain.Appointment, error) {
	return s.table.get(tenantID, id)
}

// ListRange returns appointments overlapping [from, to).
func (s *AppointmentStore) ListRange(_ context.Context, tenantID string, from, to time.Time) ([]domain.Appointment, error) {
	return s.table.filter(tenantID, func(a *domain.Appointment) bool {
		return a.Overlaps(from, to)
	}), nil
}

// ListByClient returns a client's appointments.
func (s *AppointmentStore) ListByClient(_ context.Context, tenantID, clientID string) ([]domain.Appointment, error) {
	return s.table.filter(tenantID, func(a *domain.Appointment) bool {
		return a.ClientID == clientID
	}), nil
}

// ListOverdue returns open appointments of all tenants that ended before cutoff.
func (s *AppointmentStore) ListOverdue(_ context.Context, cutoff time.Time) ([]domain.Appointment, error) {
	return s.table.filter("", func(a *domain.Appointment) bool {
		return isOpen(a.Status) && a.End.Before(cutoff)
	}), nil
}

// ListUnpublished returns open appointments of all tenants starting after from without a calendar event.
func (s *AppointmentStore) ListUnpublished(_ context.Context, from time.Time, limit int) ([]domain.Appointment, error) {
	rows := s.table.filter("", func(a *domain.Appointment) bool {
		return isOpen(a.Status) && a.CalendarEventID == "" && a.Start.After(from)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func isOpen(status domain.AppointmentStatus) bool {
	return status == domain.StatusScheduled || status == domain.StatusConfirmed
}
