package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func TestStaffService_Create(t *testing.T) {
	e := newTestEnv(t)
	svc := NewStaffService(e.staff, e.tenants, e.companies, e.appts, e.routes)

	created, err := svc.Create(e.ctx, domain.Staff{
		TenantID: e.tenant.ID,
		Name:     " Rosa ",
		Role:     domain.RoleAssistant,
		Phone:    "55-2222-3333",
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "Rosa", created.Name)
	assert.Equal(t, "5522223333", created.Phone)

	_, err = svc.Create(e.ctx, domain.Staff{TenantID: e.tenant.ID, Name: "X", Role: "janitor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStaffService_PlanLimit(t *testing.T) {
	e := newTestEnv(t)
	e.company.Plan = domain.PlanFree
	require.NoError(t, e.companies.Save(e.ctx, e.company))
	svc := NewStaffService(e.staff, e.tenants, e.companies, e.appts, e.routes)

	// The free plan allows three and the env already has three.
	_, err := svc.Create(e.ctx, domain.Staff{TenantID: e.tenant.ID, Name: "Cuarto", Role: domain.RoleVet})
	assert.ErrorIs(t, err, domain.ErrPlanLimitReached)

	beto := e.vetBeto
	beto.Active = false
	require.NoError(t, svc.Update(e.ctx, beto))

	nuevo, err := svc.Create(e.ctx, domain.Staff{TenantID: e.tenant.ID, Name: "Nuevo", Role: domain.RoleVet})
	require.NoError(t, err)

	beto.Active = true
	assert.ErrorIs(t, svc.Update(e.ctx, beto), domain.ErrPlanLimitReached)

	nuevo.Name = "Nuevo Vet"
	require.NoError(t, svc.Update(e.ctx, *nuevo), "already active members are not re-counted")
}

func TestStaffService_DeleteInUse(t *testing.T) {
	e := newTestEnv(t)
	svc := NewStaffService(e.staff, e.tenants, e.companies, e.appts, e.routes)
	svc.now = e.clock

	req := e.request(e.at(0, 10, 0))
	req.StaffID = e.vetBeto.ID
	_, err := e.appointmentService().Book(e.ctx, req)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(e.ctx, e.tenant.ID, e.vetBeto.ID), domain.ErrInUse)

	driver := e.addStaff(t, "st-carlos", "Carlos", domain.RoleDriver)
	require.NoError(t, e.routes.Save(e.ctx, domain.DeliveryRoute{
		ID: "rt-1", TenantID: e.tenant.ID, Name: "Martes", DriverID: driver.ID,
	}))
	assert.ErrorIs(t, svc.Delete(e.ctx, e.tenant.ID, driver.ID), domain.ErrInUse)

	require.NoError(t, svc.Delete(e.ctx, e.tenant.ID, e.groomer.ID))
	_, err = svc.Get(e.ctx, e.tenant.ID, e.groomer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomService(t *testing.T) {
	e := newTestEnv(t)
	svc := NewRoomService(e.rooms, e.appts)
	svc.now = e.clock

	room, err := svc.Create(e.ctx, domain.Room{TenantID: e.tenant.ID, Name: "Quirófano", Kind: domain.RoomSurgery})
	require.NoError(t, err)
	assert.True(t, room.Active)

	_, err = svc.Create(e.ctx, domain.Room{TenantID: e.tenant.ID, Name: "Bodega", Kind: "storage"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	room.Active = false
	require.NoError(t, svc.Update(e.ctx, *room))
	got, err := svc.Get(e.ctx, e.tenant.ID, room.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	_, err = e.appointmentService().Book(e.ctx, e.request(e.at(0, 10, 0)))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(e.ctx, e.tenant.ID, e.consult1.ID), domain.ErrInUse)
	require.NoError(t, svc.Delete(e.ctx, e.tenant.ID, room.ID))

	rooms, err := svc.List(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	assert.Len(t, rooms, 3)
}

func TestCatalogService_Validation(t *testing.T) {
	e := newTestEnv(t)
	svc := NewCatalogService(e.services, e.appts)

	base := domain.Service{TenantID: e.tenant.ID, Name: "Ultrasonido", DurationMinutes: 45, PriceCents: 90000}
	tests := []struct {
		name   string
		modify func(*domain.Service)
		field  string
	}{
		{"too short", func(s *domain.Service) { s.DurationMinutes = 0 }, "duration_minutes"},
		{"too long", func(s *domain.Service) { s.DurationMinutes = 485 }, "duration_minutes"},
		{"not a multiple of five", func(s *domain.Service) { s.DurationMinutes = 42 }, "duration_minutes"},
		{"negative price", func(s *domain.Service) { s.PriceCents = -1 }, "price"},
		{"unknown role", func(s *domain.Service) { s.StaffRole = "surgeon" }, "staff_role"},
		{"unknown room kind", func(s *domain.Service) { s.RoomKind = "lab" }, "room_kind"},
		{"no name", func(s *domain.Service) { s.Name = " " }, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcDef := base
			tt.modify(&svcDef)
			_, err := svc.Create(e.ctx, svcDef)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	for _, minutes := range []int{5, 45, 480} {
		t.Run(fmt.Sprintf("%d minutes", minutes), func(t *testing.T) {
			svcDef := base
			svcDef.DurationMinutes = minutes
			created, err := svc.Create(e.ctx, svcDef)
			require.NoError(t, err)
			assert.True(t, created.Active)
		})
	}
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	e := newTestEnv(t)
	svc := NewCatalogService(e.services, e.appts)
	svc.now = e.clock

	appt, err := e.appointmentService().Book(e.ctx, e.request(e.at(0, 10, 0)))
	require.NoError(t, err)

	consult := e.consult
	consult.DurationMinutes = 45
	require.NoError(t, svc.Update(e.ctx, consult))

	stored, err := e.appts.Get(e.ctx, e.tenant.ID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.End, stored.End, "booked times do not move")

	assert.ErrorIs(t, svc.Delete(e.ctx, e.tenant.ID, e.consult.ID), domain.ErrInUse)
	require.NoError(t, svc.Delete(e.ctx, e.tenant.ID, e.grooming.ID))
	assert.ErrorIs(t, svc.Delete(e.ctx, e.tenant.ID, e.grooming.ID), domain.ErrNotFound)
}
