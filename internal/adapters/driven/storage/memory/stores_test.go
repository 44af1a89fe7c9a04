package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func TestTenantStore_SlugUnique(t *testing.T) {
	store := NewTenantStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Tenant{ID: "t1", CompanyID: "c1", Slug: "roma"}))
	require.NoError(t, store.Save(ctx, domain.Tenant{ID: "t1", CompanyID: "c1", Slug: "roma", Name: "renamed"}))
	err := store.Save(ctx, domain.Tenant{ID: "t2", CompanyID: "c1", Slug: "roma"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := store.GetBySlug(ctx, "roma")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	_, err = store.GetBySlug(ctx, "condesa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTenantStore_ListByCompany(t *testing.T) {
	store := NewTenantStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Tenant{ID: "t1", CompanyID: "c1", Slug: "roma"}))
	require.NoError(t, store.Save(ctx, domain.Tenant{ID: "t2", CompanyID: "c1", Slug: "condesa"}))
	require.NoError(t, store.Save(ctx, domain.Tenant{ID: "t3", CompanyID: "c2", Slug: "polanco"}))

	tenants, err := store.ListByCompany(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, "condesa", tenants[0].Slug)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestClientStore_TenantIsolation(t *testing.T) {
	store := NewClientStore(nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Client{ID: "c1", TenantID: "t1", FirstName: "Ana"}))

	_, err := store.Get(ctx, "t2", "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "t2", "c1"))
	got, err := store.Get(ctx, "t1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)

	others, err := store.List(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestClientStore_DeleteCascadesPets(t *testing.T) {
	pets := NewPetStore()
	clients := NewClientStore(pets)
	ctx := context.Background()

	require.NoError(t, clients.Save(ctx, domain.Client{ID: "c1", TenantID: "t1"}))
	require.NoError(t, pets.Save(ctx, domain.Pet{ID: "p1", TenantID: "t1", ClientID: "c1", Name: "Firulais"}))
	require.NoError(t, pets.Save(ctx, domain.Pet{ID: "p2", TenantID: "t1", ClientID: "c2", Name: "Michi"}))

	require.NoError(t, clients.Delete(ctx, "t1", "c1"))

	_, err := pets.Get(ctx, "t1", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = pets.Get(ctx, "t1", "p2")
	assert.NoError(t, err)
}

func TestClientStore_ListSorted(t *testing.T) {
	store := NewClientStore(nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Client{ID: "1", TenantID: "t", FirstName: "Luis", LastName: "Pérez"}))
	require.NoError(t, store.Save(ctx, domain.Client{ID: "2", TenantID: "t", FirstName: "Ana", LastName: "García"}))
	require.NoError(t, store.Save(ctx, domain.Client{ID: "3", TenantID: "t", FirstName: "Beto", LastName: "García"}))

	clients, err := store.List(ctx, "t")
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, []string{"2", "3", "1"}, []string{clients[0].ID, clients[1].ID, clients[2].ID})
}

func TestAppointmentStore_Queries(t *testing.T) {
	store := NewAppointmentStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	appts := []domain.Appointment{
		{ID: "a1", TenantID: "t1", ClientID: "c1", Status: domain.StatusScheduled, Start: base, End: base.Add(30 * time.Minute)},
		{ID: "a2", TenantID: "t1", ClientID: "c2", Status: domain.StatusConfirmed, Start: base.Add(time.Hour), End: base.Add(90 * time.Minute), CalendarEventID: "evt"},
		{ID: "a3", TenantID: "t1", ClientID: "c1", Status: domain.StatusCancelled, Start: base.Add(2 * time.Hour), End: base.Add(150 * time.Minute)},
		{ID: "a4", TenantID: "t2", ClientID: "c9", Status: domain.StatusScheduled, Start: base, End: base.Add(time.Hour)},
	}
	for _, a := range appts {
		require.NoError(t, store.Save(ctx, a))
	}

	inRange, err := store.ListRange(ctx, "t1", base.Add(15*time.Minute), base.Add(65*time.Minute))
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, "a1", inRange[0].ID)
	assert.Equal(t, "a2", inRange[1].ID)

	byClient, err := store.ListByClient(ctx, "t1", "c1")
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	overdue, err := store.ListOverdue(ctx, base.Add(61*time.Minute))
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.ElementsMatch(t, []string{"a1", "a4"}, []string{overdue[0].ID, overdue[1].ID})

	pending, err := store.ListUnpublished(ctx, base.Add(-time.Minute), 1)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestInventoryStore_SKU(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.InventoryItem{ID: "i1", TenantID: "t1", SKU: "VAC-01"}))
	require.NoError(t, store.Save(ctx, domain.InventoryItem{ID: "i2", TenantID: "t2", SKU: "VAC-01"}))
	assert.ErrorIs(t, store.Save(ctx, domain.InventoryItem{ID: "i3", TenantID: "t1", SKU: "VAC-01"}), domain.ErrAlreadyExists)

	got, err := store.GetBySKU(ctx, "t1", "VAC-01")
	require.NoError(t, err)
	assert.Equal(t, "i1", got.ID)

	err = store.SaveBatch(ctx, []domain.InventoryItem{
		{ID: "i4", TenantID: "t1", SKU: "NEW"},
		{ID: "i5", TenantID: "t1", SKU: "VAC-01"},
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	_, err = store.GetBySKU(ctx, "t1", "NEW")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteStore_StopsAreCopied(t *testing.T) {
	store := NewRouteStore()
	ctx := context.Background()
	route := domain.DeliveryRoute{ID: "r1", TenantID: "t1", Stops: []domain.RouteStop{{Sequence: 1, ClientID: "c1"}}}
	require.NoError(t, store.Save(ctx, route))

	route.Stops[0].ClientID = "mutated"
	got, err := store.Get(ctx, "t1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.Stops[0].ClientID)
}

func TestPostalCodeStore(t *testing.T) {
	store := NewPostalCodeStore()
	ctx := context.Background()
	require.NoError(t, store.SaveBatch(ctx, []domain.PostalCode{
		{Code: "06700", Colonia: "Roma Norte", SearchKey: "roma norte cuauhtemoc"},
		{Code: "06760", Colonia: "Roma Sur", SearchKey: "roma sur cuauhtemoc"},
		{Code: "06700", Colonia: "Roma Norte", SearchKey: "roma norte cuauhtemoc"},
	}))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	byCode, err := store.ListByCode(ctx, "06700")
	require.NoError(t, err)
	assert.Len(t, byCode, 1)

	found, err := store.Search(ctx, "roma", 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "06700", found[0].Code)
}
