package mcp

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// mockTenantService is a mock implementation of driving.TenantService.
type mockTenantService struct {
	tenants []domain.Tenant
	err     error
}

func (m *mockTenantService) Create(_ context.Context, t domain.Tenant) (*domain.Tenant, error) {
	return &t, m.err
}

func (m *mockTenantService) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	return m.Resolve(ctx, id)
}

func (m *mockTenantService) Resolve(_ context.Context, ref string) (*domain.Tenant, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.tenants {
		if m.tenants[i].ID == ref || m.tenants[i].Slug == ref {
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockTenantService) List(_ context.Context) ([]domain.Tenant, error) {
	return m.tenants, m.err
}

func (m *mockTenantService) Update(_ context.Context, _ domain.Tenant) error {
	return m.err
}

func (m *mockTenantService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockAppointmentService is a mock implementation of driving.AppointmentService.
type mockAppointmentService struct {
	availability *domain.Availability
	booked       *domain.Appointment
	day          []domain.Appointment
	err          error

	lastRequest domain.BookingRequest
	lastDay     time.Time
}

func (m *mockAppointmentService) CheckAvailability(
	_ context.Context,
	req domain.BookingRequest,
) (*domain.Availability, error) {
	m.lastRequest = req
	return m.availability, m.err
}

func (m *mockAppointmentService) Book(_ context.Context, req domain.BookingRequest) (*domain.Appointment, error) {
	m.lastRequest = req
	return m.booked, m.err
}

func (m *mockAppointmentService) Reschedule(
	_ context.Context,
	_, _ string,
	_ time.Time,
	_, _ string,
) (*domain.Appointment, error) {
	return m.booked, m.err
}

func (m *mockAppointmentService) Transition(
	_ context.Context,
	_, _ string,
	_ domain.AppointmentStatus,
) (*domain.Appointment, error) {
	return m.booked, m.err
}

func (m *mockAppointmentService) Get(_ context.Context, _, _ string) (*domain.Appointment, error) {
	return m.booked, m.err
}

func (m *mockAppointmentService) Day(_ context.Context, _ string, date time.Time) ([]domain.Appointment, error) {
	m.lastDay = date
	return m.day, m.err
}

func (m *mockAppointmentService) Range(_ context.Context, _ string, _, _ time.Time) ([]domain.Appointment, error) {
	return m.day, m.err
}

func (m *mockAppointmentService) SweepNoShows(_ context.Context, _ time.Time) (int, error) {
	return 0, m.err
}

func (m *mockAppointmentService) PublishPending(_ context.Context, _ int) (int, error) {
	return 0, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	services []domain.Service
	err      error
}

func (m *mockCatalogService) Create(_ context.Context, svc domain.Service) (*domain.Service, error) {
	return &svc, m.err
}

func (m *mockCatalogService) Get(_ context.Context, _, _ string) (*domain.Service, error) {
	return nil, domain.ErrNotFound
}

func (m *mockCatalogService) List(_ context.Context, _ string) ([]domain.Service, error) {
	return m.services, m.err
}

func (m *mockCatalogService) Update(_ context.Context, _ domain.Service) error {
	return m.err
}

func (m *mockCatalogService) Delete(_ context.Context, _, _ string) error {
	return m.err
}

// mockPostalService is a mock implementation of driving.PostalService.
type mockPostalService struct {
	entries []domain.PostalCode
	err     error

	lastQuery string
	lastLimit int
}

func (m *mockPostalService) Lookup(_ context.Context, code string) ([]domain.PostalCode, error) {
	m.lastQuery = code
	return m.entries, m.err
}

func (m *mockPostalService) Search(_ context.Context, query string, limit int) ([]domain.PostalCode, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.entries, m.err
}

func (m *mockPostalService) Import(_ context.Context, _ io.Reader) (int, error) {
	return 0, m.err
}

func testTenants() *mockTenantService {
	return &mockTenantService{tenants: []domain.Tenant{
		{ID: "tn-1", Slug: "huellitas-roma", Name: "Huellitas Roma", Timezone: "America/Mexico_City", SlotMinutes: 15},
		{ID: "tn-2", Slug: "huellitas-napoles", Name: "Huellitas Nápoles", Timezone: "America/Mexico_City"},
	}}
}
