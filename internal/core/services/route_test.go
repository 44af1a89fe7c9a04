package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func newRouteEnv(t *testing.T) (*testEnv, *RouteService, domain.Staff) {
	t.Helper()
	e := newTestEnv(t)
	driver := e.addStaff(t, "st-carlos", "Carlos", domain.RoleDriver)
	svc := NewRouteService(e.routes, e.staff, e.clients)
	svc.now = e.clock
	return e, svc, driver
}

func TestRouteService_CreateFillsStops(t *testing.T) {
	e, svc, driver := newRouteEnv(t)

	addr := domain.Address{Street: "Durango", ExtNumber: "10", Colonia: "Roma Norte", PostalCode: "06700"}
	route, err := svc.Create(e.ctx, domain.DeliveryRoute{
		TenantID: e.tenant.ID,
		Name:     " Reparto martes ",
		Weekday:  time.Tuesday,
		DriverID: driver.ID,
		Stops: []domain.RouteStop{
			{ClientID: e.client.ID, WindowStart: 9 * 60, WindowEnd: 11 * 60},
			{ClientID: e.otherClient.ID, Address: addr},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Reparto martes", route.Name)
	require.Len(t, route.Stops, 2)
	assert.Equal(t, 1, route.Stops[0].Sequence)
	assert.Equal(t, e.client.Address, route.Stops[0].Address)
	assert.Equal(t, 2, route.Stops[1].Sequence)
	assert.Equal(t, addr, route.Stops[1].Address)

	_, err = svc.Create(e.ctx, domain.DeliveryRoute{TenantID: e.tenant.ID, Name: "REPARTO MARTES"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRouteService_Validation(t *testing.T) {
	e, svc, _ := newRouteEnv(t)

	tests := []struct {
		name  string
		route domain.DeliveryRoute
		field string
	}{
		{"no name", domain.DeliveryRoute{TenantID: e.tenant.ID}, "name"},
		{"bad weekday", domain.DeliveryRoute{TenantID: e.tenant.ID, Name: "R", Weekday: 7}, "weekday"},
		{"vet as driver", domain.DeliveryRoute{TenantID: e.tenant.ID, Name: "R", DriverID: e.vetAna.ID}, "driver_id"},
		{"unknown driver", domain.DeliveryRoute{TenantID: e.tenant.ID, Name: "R", DriverID: "st-none"}, "driver_id"},
		{"stop without client", domain.DeliveryRoute{
			TenantID: e.tenant.ID, Name: "R", Stops: []domain.RouteStop{{}},
		}, "stops[0]"},
		{"unknown client", domain.DeliveryRoute{
			TenantID: e.tenant.ID, Name: "R", Stops: []domain.RouteStop{{ClientID: "cl-none"}},
		}, "stops[0]"},
		{"client twice", domain.DeliveryRoute{
			TenantID: e.tenant.ID, Name: "R",
			Stops: []domain.RouteStop{{ClientID: e.client.ID}, {ClientID: e.client.ID}},
		}, "stops[1]"},
		{"client without address", domain.DeliveryRoute{
			TenantID: e.tenant.ID, Name: "R", Stops: []domain.RouteStop{{ClientID: e.otherClient.ID}},
		}, "stops[0]"},
		{"inverted window", domain.DeliveryRoute{
			TenantID: e.tenant.ID, Name: "R",
			Stops: []domain.RouteStop{{ClientID: e.client.ID, WindowStart: 12 * 60, WindowEnd: 10 * 60}},
		}, "stops[0]"},
		{"window past midnight", domain.DeliveryRoute{
			TenantID: e.tenant.ID, Name: "R",
			Stops: []domain.RouteStop{{ClientID: e.client.ID, WindowStart: 23 * 60, WindowEnd: 25 * 60}},
		}, "stops[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(e.ctx, tt.route)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRouteService_Reorder(t *testing.T) {
	e, svc, _ := newRouteEnv(t)
	third := domain.Client{
		ID: "cl-3", TenantID: e.tenant.ID, FirstName: "Lupe", Phone: "5599998888",
		Address: domain.Address{Street: "Orizaba", Colonia: "Roma Sur", PostalCode: "06760"},
	}
	require.NoError(t, e.clients.Save(e.ctx, third))

	route, err := svc.Create(e.ctx, domain.DeliveryRoute{
		TenantID: e.tenant.ID, Name: "Jueves", Weekday: time.Thursday,
		Stops: []domain.RouteStop{{ClientID: e.client.ID}, {ClientID: third.ID}},
	})
	require.NoError(t, err)

	reordered, err := svc.Reorder(e.ctx, e.tenant.ID, route.ID, []string{third.ID, e.client.ID})
	require.NoError(t, err)
	assert.Equal(t, third.ID, reordered.Stops[0].ClientID)
	assert.Equal(t, 1, reordered.Stops[0].Sequence)
	assert.Equal(t, e.client.ID, reordered.Stops[1].ClientID)
	assert.Equal(t, 2, reordered.Stops[1].Sequence)

	for name, ids := range map[string][]string{
		"missing stop":  {third.ID},
		"repeated stop": {third.ID, third.ID},
		"foreign stop":  {third.ID, e.otherClient.ID},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Reorder(e.ctx, e.tenant.ID, route.ID, ids)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	stored, err := svc.Get(e.ctx, e.tenant.ID, route.ID)
	require.NoError(t, err)
	assert.Equal(t, third.ID, stored.Stops[0].ClientID, "failed reorders leave the route untouched")
}

func TestRouteService_ForDayAndUpdate(t *testing.T) {
	e, svc, _ := newRouteEnv(t)

	tue, err := svc.Create(e.ctx, domain.DeliveryRoute{TenantID: e.tenant.ID, Name: "Martes", Weekday: time.Tuesday})
	require.NoError(t, err)
	thu, err := svc.Create(e.ctx, domain.DeliveryRoute{TenantID: e.tenant.ID, Name: "Jueves", Weekday: time.Thursday})
	require.NoError(t, err)

	routes, err := svc.ForDay(e.ctx, e.tenant.ID, time.Tuesday)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, tue.ID, routes[0].ID)

	thu.Name = "martes"
	assert.ErrorIs(t, svc.Update(e.ctx, *thu), domain.ErrAlreadyExists)

	tue.Name = "MARTES"
	require.NoError(t, svc.Update(e.ctx, *tue), "renaming to itself is allowed")

	require.NoError(t, svc.Delete(e.ctx, e.tenant.ID, thu.ID))
	all, err := svc.List(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
