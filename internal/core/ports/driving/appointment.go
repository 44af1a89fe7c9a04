package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// AppointmentService checks slot availability and manages bookings.
type AppointmentService interface {
	// CheckAvailability reports every reason the requested slot cannot be
	// booked, plus nearby free slots. It does not write anything.
	CheckAvailability(ctx context.Context, req domain.BookingRequest) (*domain.Availability, error)

	// Book re-checks availability and stores the appointment.
	// Returns a *domain.SlotError when the slot is taken.
	Book(ctx context.Context, req domain.BookingRequest) (*domain.Appointment, error)

	// Reschedule moves an appointment, optionally changing staff or room.
	Reschedule(ctx context.Context, tenantID, id string, start time.Time, staffID, roomID string) (*domain.Appointment, error)

	// Transition moves an appointment to a new status.
	Transition(ctx context.Context, tenantID, id string, status domain.AppointmentStatus) (*domain.Appointment, error)

	Get(ctx context.Context, tenantID, id string) (*domain.Appointment, error)

	// Day returns the agenda for a local calendar date, ordered by start.
	Day(ctx context.Context, tenantID string, date time.Time) ([]domain.Appointment, error)

	// Range returns appointments overlapping [from, to).
	Range(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Appointment, error)

	// SweepNoShows marks overdue appointments as no-shows and returns how many changed.
	SweepNoShows(ctx context.Context, now time.Time) (int, error)

	// PublishPending mirrors unpublished appointments to the calendar.
	PublishPending(ctx context.Context, limit int) (int, error)
}
