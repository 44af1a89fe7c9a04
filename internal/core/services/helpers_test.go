package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// testEnv is a clinic open Monday to Friday 09:00-19:00 on a 30 minute
// grid, with two vets, a groomer, two consult rooms and a grooming room.
// The clock is fixed at Monday 2026-03-02 08:00 in Mexico City.
type testEnv struct {
	ctx context.Context
	loc *time.Location
	now time.Time

	companies *memory.CompanyStore
	tenants   *memory.TenantStore
	staff     *memory.StaffStore
	rooms     *memory.RoomStore
	services  *memory.ServiceStore
	pets      *memory.PetStore
	clients   *memory.ClientStore
	appts     *memory.AppointmentStore
	inventory *memory.InventoryStore
	receipts  *memory.ReceiptStore
	routes    *memory.RouteStore
	postal    *memory.PostalCodeStore

	company domain.Company
	tenant  domain.Tenant

	vetAna, vetBeto, groomer domain.Staff
	consult1, consult2, spa  domain.Room
	consult, grooming, home  domain.Service

	client      domain.Client
	pet         domain.Pet
	otherClient domain.Client
	otherPet    domain.Pet
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	pets := memory.NewPetStore()
	e := &testEnv{
		ctx:       context.Background(),
		loc:       loc,
		now:       time.Date(2026, 3, 2, 8, 0, 0, 0, loc),
		companies: memory.NewCompanyStore(),
		tenants:   memory.NewTenantStore(),
		staff:     memory.NewStaffStore(),
		rooms:     memory.NewRoomStore(),
		services:  memory.NewServiceStore(),
		pets:      pets,
		clients:   memory.NewClientStore(pets),
		appts:     memory.NewAppointmentStore(),
		inventory: memory.NewInventoryStore(),
		receipts:  memory.NewReceiptStore(),
		routes:    memory.NewRouteStore(),
		postal:    memory.NewPostalCodeStore(),
	}

	e.company = domain.Company{ID: "co-1", Name: "Huellitas", Plan: domain.PlanClinic}
	require.NoError(t, e.companies.Save(e.ctx, e.company))

	e.tenant = domain.Tenant{
		ID:          "tn-1",
		CompanyID:   e.company.ID,
		Slug:        "huellitas-roma",
		Name:        "Huellitas Roma",
		Timezone:    "America/Mexico_City",
		SlotMinutes: 30,
		Hours:       domain.DefaultBusinessHours(),
	}
	require.NoError(t, e.tenants.Save(e.ctx, e.tenant))

	e.vetAna = e.addStaff(t, "st-ana", "Ana Vet", domain.RoleVet)
	e.vetBeto = e.addStaff(t, "st-beto", "Beto Vet", domain.RoleVet)
	e.groomer = e.addStaff(t, "st-gina", "Gina Groomer", domain.RoleGroomer)

	e.consult1 = e.addRoom(t, "rm-1", "Consultorio 1", domain.RoomConsult)
	e.consult2 = e.addRoom(t, "rm-2", "Consultorio 2", domain.RoomConsult)
	e.spa = e.addRoom(t, "rm-spa", "Estética", domain.RoomGrooming)

	e.consult = e.addService(t, "sv-consult", "Consulta", 30, domain.RoleVet, domain.RoomConsult)
	e.grooming = e.addService(t, "sv-groom", "Baño", 60, domain.RoleGroomer, domain.RoomGrooming)
	e.home = e.addService(t, "sv-home", "Domicilio", 60, domain.RoleVet, "")

	e.client = domain.Client{
		ID: "cl-1", TenantID: e.tenant.ID, FirstName: "Ana", LastName: "López",
		Phone: "5512345678",
		Address: domain.Address{
			Street: "Colima", ExtNumber: "45", Colonia: "Roma Norte",
			PostalCode: "06700", City: "Ciudad de México", State: "CDMX",
		},
	}
	require.NoError(t, e.clients.Save(e.ctx, e.client))
	e.pet = domain.Pet{ID: "pt-1", TenantID: e.tenant.ID, ClientID: e.client.ID, Name: "Firulais", Species: domain.SpeciesDog}
	require.NoError(t, e.pets.Save(e.ctx, e.pet))

	e.otherClient = domain.Client{ID: "cl-2", TenantID: e.tenant.ID, FirstName: "Jorge", LastName: "Pérez", Phone: "5587654321"}
	require.NoError(t, e.clients.Save(e.ctx, e.otherClient))
	e.otherPet = domain.Pet{ID: "pt-2", TenantID: e.tenant.ID, ClientID: e.otherClient.ID, Name: "Luna", Species: domain.SpeciesDog}
	require.NoError(t, e.pets.Save(e.ctx, e.otherPet))

	return e
}

func (e *testEnv) clock() time.Time { return e.now }

// at returns hh:mm local time on the env's Monday, shifted by days.
func (e *testEnv) at(days, hh, mm int) time.Time {
	return time.Date(2026, 3, 2+days, hh, mm, 0, 0, e.loc)
}

func (e *testEnv) addStaff(t *testing.T, id, name string, role domain.Role) domain.Staff {
	t.Helper()
	s := domain.Staff{ID: id, TenantID: e.tenant.ID, Name: name, Role: role, Active: true}
	require.NoError(t, e.staff.Save(e.ctx, s))
	return s
}

func (e *testEnv) addRoom(t *testing.T, id, name string, kind domain.RoomKind) domain.Room {
	t.Helper()
	r := domain.Room{ID: id, TenantID: e.tenant.ID, Name: name, Kind: kind, Active: true}
	require.NoError(t, e.rooms.Save(e.ctx, r))
	return r
}

func (e *testEnv) addService(
	t *testing.T,
	id, name string,
	minutes int,
	role domain.Role,
	kind domain.RoomKind,
) domain.Service {
	t.Helper()
	s := domain.Service{
		ID: id, TenantID: e.tenant.ID, Name: name, DurationMinutes: minutes,
		PriceCents: 45000, StaffRole: role, RoomKind: kind, Active: true,
	}
	require.NoError(t, e.services.Save(e.ctx, s))
	return s
}

// addPet registers an extra client with one pet and returns the pet.
func (e *testEnv) addPet(t *testing.T, n int) domain.Pet {
	t.Helper()
	c := domain.Client{ID: fmt.Sprintf("cl-x%d", n), TenantID: e.tenant.ID, FirstName: "Extra", Phone: "5500000000"}
	require.NoError(t, e.clients.Save(e.ctx, c))
	p := domain.Pet{ID: fmt.Sprintf("pt-x%d", n), TenantID: e.tenant.ID, ClientID: c.ID, Name: "Extra", Species: domain.SpeciesCat}
	require.NoError(t, e.pets.Save(e.ctx, p))
	return p
}

func (e *testEnv) appointmentService() *AppointmentService {
	svc := NewAppointmentService(AppointmentStores{
		Tenants:      e.tenants,
		Clients:      e.clients,
		Pets:         e.pets,
		Services:     e.services,
		Staff:        e.staff,
		Rooms:        e.rooms,
		Appointments: e.appts,
	})
	svc.now = e.clock
	return svc
}

func (e *testEnv) request(start time.Time) domain.BookingRequest {
	return domain.BookingRequest{
		TenantID:  e.tenant.ID,
		ClientID:  e.client.ID,
		PetID:     e.pet.ID,
		ServiceID: e.consult.ID,
		Start:     start,
	}
}

// fakePublisher records calendar calls.
type fakePublisher struct {
	mu      sync.Mutex
	events  map[string]driven.CalendarEvent
	deleted []string
	seq     int
	err     error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{events: make(map[string]driven.CalendarEvent)}
}

func (f *fakePublisher) Publish(_ context.Context, event driven.CalendarEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if event.ID == "" {
		f.seq++
		event.ID = fmt.Sprintf("evt-%d", f.seq)
	}
	f.events[event.ID] = event
	return event.ID, nil
}

func (f *fakePublisher) Delete(_ context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.events, eventID)
	f.deleted = append(f.deleted, eventID)
	return nil
}

var _ driven.CalendarPublisher = (*fakePublisher)(nil)
