package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// appointmentStore implements driven.AppointmentStore.
type appointmentStore struct {
	store *Store
}

var _ driven.AppointmentStore = (*appointmentStore)(nil)

const appointmentColumns = `id, tenant_id, client_id, pet_id, service_id, staff_id, room_id, kind, status,
	start_at, end_at, address, notes, calendar_event_id, created_at, updated_at`

// Save stores or updates an appointment.
func (s *appointmentStore) Save(ctx context.Context, a domain.Appointment) error {
	address, err := encodeJSON(a.Address)
	if err != nil {
		return fmt.Errorf("encoding address: %w", err)
	}
	err = s.store.exec(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			pet_id = excluded.pet_id,
			service_id = excluded.service_id,
			staff_id = excluded.staff_id,
			room_id = excluded.room_id,
			kind = excluded.kind,
			status = excluded.status,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			address = excluded.address,
			notes = excluded.notes,
			calendar_event_id = excluded.calendar_event_id,
			updated_at = excluded.updated_at
	`, a.ID, a.TenantID, a.ClientID, a.PetID, a.ServiceID, a.StaffID, a.RoomID,
		string(a.Kind), string(a.Status), formatTime(a.Start), formatTime(a.End),
		address, a.Notes, a.CalendarEventID, formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	return saveError("appointment", err)
}

// Get retrieves an appointment by ID within a tenant.
func (s *appointmentStore) Get(ctx context.Context, tenantID, id string) (*domain.Appointment, error) {
	return queryOne(ctx, s.store, scanAppointment,
		`SELECT `+appointmentColumns+` FROM appointments WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

// ListRange returns appointments of any status overlapping [from, to).
func (s *appointmentStore) ListRange(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Appointment, error) {
	appts, err := queryAll(ctx, s.store, scanAppointment, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE tenant_id = ? AND start_at < ? AND end_at > ?
		ORDER BY start_at, id
	`, tenantID, formatTime(to), formatTime(from))
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return appts, nil
}

// ListByClient returns a client's appointments ordered by start time.
func (s *appointmentStore) ListByClient(ctx context.Context, tenantID, clientID string) ([]domain.Appointment, error) {
	appts, err := queryAll(ctx, s.store, scanAppointment, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE tenant_id = ? AND client_id = ?
		ORDER BY start_at, id
	`, tenantID, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing client appointments: %w", err)
	}
	return appts, nil
}

// ListOverdue returns open appointments of all tenants that ended before cutoff.
func (s *appointmentStore) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Appointment, error) {
	appts, err := queryAll(ctx, s.store, scanAppointment, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE status IN (?, ?) AND end_at < ?
		ORDER BY start_at, id
	`, string(domain.StatusScheduled), string(domain.StatusConfirmed), formatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("listing overdue appointments: %w", err)
	}
	return appts, nil
}

// ListUnpublished returns open appointments of all tenants starting after
// from without a calendar event. A limit of zero means no limit.
func (s *appointmentStore) ListUnpublished(ctx context.Context, from time.Time, limit int) ([]domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + ` FROM appointments
		WHERE status IN (?, ?) AND calendar_event_id = '' AND start_at > ?
		ORDER BY start_at, id`
	args := []any{string(domain.StatusScheduled), string(domain.StatusConfirmed), formatTime(from)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	appts, err := queryAll(ctx, s.store, scanAppointment, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing unpublished appointments: %w", err)
	}
	return appts, nil
}

func scanAppointment(row scanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var kind, status, start, end, address, createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.TenantID, &a.ClientID, &a.PetID, &a.ServiceID, &a.StaffID, &a.RoomID,
		&kind, &status, &start, &end, &address, &a.Notes, &a.CalendarEventID,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning appointment: %w", err)
	}
	if err := decodeJSON(address, &a.Address); err != nil {
		return nil, fmt.Errorf("decoding address of appointment %s: %w", a.ID, err)
	}
	a.Kind = domain.AppointmentKind(kind)
	a.Status = domain.AppointmentStatus(status)
	var ts stamps
	a.Start = ts.at("start_at", start)
	a.End = ts.at("end_at", end)
	a.CreatedAt = ts.at("created_at", createdAt)
	a.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning appointment %s: %w", a.ID, ts.err)
	}
	return &a, nil
}
