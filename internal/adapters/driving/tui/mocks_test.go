package tui

import (
	"context"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// MockTenantService implements driving.TenantService for testing.
type MockTenantService struct {
	Tenants []domain.Tenant
	Err     error
}

func (m *MockTenantService) Create(_ context.Context, t domain.Tenant) (*domain.Tenant, error) {
	return &t, m.Err
}

func (m *MockTenantService) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	return m.Resolve(ctx, id)
}

func (m *MockTenantService) Resolve(_ context.Context, ref string) (*domain.Tenant, error) {
	for i := range m.Tenants {
		if m.Tenants[i].ID == ref || m.Tenants[i].Slug == ref {
			t := m.Tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockTenantService) List(context.Context) ([]domain.Tenant, error) {
	return m.Tenants, m.Err
}

func (m *MockTenantService) Update(context.Context, domain.Tenant) error { return m.Err }

func (m *MockTenantService) Delete(context.Context, string) error { return m.Err }

// MockAppointmentService implements driving.AppointmentService for testing.
type MockAppointmentService struct {
	DayFunc func(ctx context.Context, tenantID string, date time.Time) ([]domain.Appointment, error)
}

func (m *MockAppointmentService) CheckAvailability(context.Context, domain.BookingRequest) (*domain.Availability, error) {
	return nil, domain.ErrNotImplemented
}

func (m *MockAppointmentService) Book(context.Context, domain.BookingRequest) (*domain.Appointment, error) {
	return nil, domain.ErrNotImplemented
}

func (m *MockAppointmentService) Reschedule(context.Context, string, string, time.Time, string, string) (*domain.Appointment, error) {
	return nil, domain.ErrNotImplemented
}

func (m *MockAppointmentService) Transition(
	_ context.Context, tenantID, id string, status domain.AppointmentStatus,
) (*domain.Appointment, error) {
	return &domain.Appointment{ID: id, TenantID: tenantID, Status: status}, nil
}

func (m *MockAppointmentService) Get(context.Context, string, string) (*domain.Appointment, error) {
	return nil, domain.ErrNotFound
}

func (m *MockAppointmentService) Day(ctx context.Context, tenantID string, date time.Time) ([]domain.Appointment, error) {
	if m.DayFunc != nil {
		return m.DayFunc(ctx, tenantID, date)
	}
	return nil, nil
}

func (m *MockAppointmentService) Range(context.Context, string, time.Time, time.Time) ([]domain.Appointment, error) {
	return nil, nil
}

func (m *MockAppointmentService) SweepNoShows(context.Context, time.Time) (int, error) { return 0, nil }

func (m *MockAppointmentService) PublishPending(context.Context, int) (int, error) { return 0, nil }
