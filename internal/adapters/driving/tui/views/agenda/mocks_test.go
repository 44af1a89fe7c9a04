package agenda

import (
	"context"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

type mockAppointments struct {
	byDay map[string][]domain.Appointment
	err   error

	days        []time.Time
	transitions []domain.AppointmentStatus
}

func (m *mockAppointments) CheckAvailability(context.Context, domain.BookingRequest) (*domain.Availability, error) {
	return nil, m.err
}

func (m *mockAppointments) Book(context.Context, domain.BookingRequest) (*domain.Appointment, error) {
	return nil, m.err
}

func (m *mockAppointments) Reschedule(context.Context, string, string, time.Time, string, string) (*domain.Appointment, error) {
	return nil, m.err
}

func (m *mockAppointments) Transition(_ context.Context, _, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.transitions = append(m.transitions, status)
	for _, appts := range m.byDay {
		for i := range appts {
			if appts[i].ID == id {
				a := appts[i]
				a.Status = status
				return &a, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAppointments) Get(context.Context, string, string) (*domain.Appointment, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAppointments) Day(_ context.Context, _ string, date time.Time) ([]domain.Appointment, error) {
	m.days = append(m.days, date)
	if m.err != nil {
		return nil, m.err
	}
	return m.byDay[date.Format("2006-01-02")], nil
}

func (m *mockAppointments) Range(context.Context, string, time.Time, time.Time) ([]domain.Appointment, error) {
	return nil, m.err
}

func (m *mockAppointments) SweepNoShows(context.Context, time.Time) (int, error) {
	return 0, m.err
}

func (m *mockAppointments) PublishPending(context.Context, int) (int, error) {
	return 0, m.err
}

type mockClients struct {
	clients map[string]domain.Client
	pets    map[string]domain.Pet
	gets    int
}

func (m *mockClients) Create(_ context.Context, c domain.Client) (*domain.Client, error) {
	return &c, nil
}

func (m *mockClients) Get(_ context.Context, _, id string) (*domain.Client, error) {
	m.gets++
	c, ok := m.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *mockClients) List(context.Context, string) ([]domain.Client, error) { return nil, nil }

func (m *mockClients) Search(context.Context, string, string) ([]domain.Client, error) {
	return nil, nil
}

func (m *mockClients) Update(context.Context, domain.Client) error { return nil }

func (m *mockClients) Delete(context.Context, string, string) error { return nil }

func (m *mockClients) Intake(_ context.Context, c domain.Client, pets []domain.Pet) (*domain.Client, []domain.Pet, error) {
	return &c, pets, nil
}

func (m *mockClients) AddPet(_ context.Context, p domain.Pet) (*domain.Pet, error) { return &p, nil }

func (m *mockClients) GetPet(_ context.Context, _, id string) (*domain.Pet, error) {
	p, ok := m.pets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *mockClients) ListPets(context.Context, string, string) ([]domain.Pet, error) {
	return nil, nil
}

func (m *mockClients) UpdatePet(context.Context, domain.Pet) error { return nil }

func (m *mockClients) DeletePet(context.Context, string, string) error { return nil }
