package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func seedStores() SeedStores {
	pets := memory.NewPetStore()
	return SeedStores{
		Companies:    memory.NewCompanyStore(),
		Tenants:      memory.NewTenantStore(),
		Staff:        memory.NewStaffStore(),
		Rooms:        memory.NewRoomStore(),
		Services:     memory.NewServiceStore(),
		Clients:      memory.NewClientStore(pets),
		Pets:         pets,
		Inventory:    memory.NewInventoryStore(),
		Templates:    memory.NewReceiptStore(),
		Routes:       memory.NewRouteStore(),
		PostalCodes:  memory.NewPostalCodeStore(),
		Appointments: memory.NewAppointmentStore(),
	}
}

func newSeedService(stores SeedStores) *SeedService {
	svc := NewSeedService(stores)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC) }
	return svc
}

func TestSeedService_Idempotent(t *testing.T) {
	stores := seedStores()
	svc := newSeedService(stores)
	ctx := t.Context()

	first, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Companies)
	assert.Equal(t, 2, first.Tenants)
	assert.Equal(t, 8, first.PostalCodes)
	assert.Equal(t, 3, first.Appointments)
	assert.Equal(t, 3, first.Routes)

	second, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Routes, "existing routes are kept")
	second.Routes = first.Routes
	assert.Equal(t, first, second)

	companies, err := stores.Companies.List(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 2)

	tenant, err := stores.Tenants.GetBySlug(ctx, "huellitas-roma")
	require.NoError(t, err)
	staff, err := stores.Staff.List(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Len(t, staff, 4)
	clients, err := stores.Clients.List(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Len(t, clients, 3)

	routes, err := stores.Routes.List(ctx, tenant.ID)
	require.NoError(t, err)
	var names []string
	stops := 0
	for _, r := range routes {
		names = append(names, r.Name)
		stops += len(r.Stops)
		assert.NotEmpty(t, r.DriverID, "demo driver assigned")
	}
	assert.ElementsMatch(t, []string{"Reparto martes", "Reparto jueves"}, names)
	assert.Equal(t, 3, stops, "every client with an address gets one stop")

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	appts, err := stores.Appointments.ListRange(ctx, tenant.ID, from, from.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Len(t, appts, 3)

	entries, err := stores.PostalCodes.ListByCode(ctx, "06700")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestSeedService_KeepsEditedAppointments(t *testing.T) {
	stores := seedStores()
	svc := newSeedService(stores)
	ctx := t.Context()

	_, err := svc.Seed(ctx)
	require.NoError(t, err)
	tenant, err := stores.Tenants.GetBySlug(ctx, "huellitas-roma")
	require.NoError(t, err)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	appts, err := stores.Appointments.ListRange(ctx, tenant.ID, from, from.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NotEmpty(t, appts)

	edited := appts[0]
	edited.Status = domain.StatusCancelled
	require.NoError(t, stores.Appointments.Save(ctx, edited))

	_, err = svc.Seed(ctx)
	require.NoError(t, err)
	got, err := stores.Appointments.Get(ctx, tenant.ID, edited.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestSeedService_SeedRoutes(t *testing.T) {
	stores := seedStores()
	svc := newSeedService(stores)
	ctx := t.Context()

	_, err := svc.Seed(ctx)
	require.NoError(t, err)
	tenant, err := stores.Tenants.GetBySlug(ctx, "huellitas-roma")
	require.NoError(t, err)

	routes, err := stores.Routes.List(ctx, tenant.ID)
	require.NoError(t, err)
	for _, r := range routes {
		require.NoError(t, stores.Routes.Delete(ctx, tenant.ID, r.ID))
	}

	n, err := svc.SeedRoutes(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.SeedRoutes(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.SeedRoutes(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeedService_Errors(t *testing.T) {
	_, err := NewSeedService(SeedStores{}).Seed(t.Context())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = NewSeedService(SeedStores{}).SeedRoutes(t.Context(), "tn-1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = NewSeedServiceWithFixture(seedStores(), []byte("companies: [")).Seed(t.Context())
	assert.Error(t, err)

	badPlan := []byte("companies:\n  - key: x\n    name: X\n    plan: platinum\n")
	_, err = NewSeedServiceWithFixture(seedStores(), badPlan).Seed(t.Context())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badPostal := []byte("postal_codes:\n  - \"123|Centro\"\n")
	_, err = NewSeedServiceWithFixture(seedStores(), badPostal).Seed(t.Context())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{in: "Friday", want: time.Friday},
		{in: "Miércoles", want: time.Wednesday},
		{in: "sabado", want: time.Saturday},
		{in: " DOMINGO ", want: time.Sunday},
		{in: "funday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
