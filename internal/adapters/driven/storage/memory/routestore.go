package memory

import (
	"context"
	"slices"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure RouteStore implements the interface.
var _ driven.RouteStore = (*RouteStore)(nil)

// RouteStore is an in-memory implementation of driven.RouteStore.
type RouteStore struct {
	table *tenantTable[domain.DeliveryRoute]
}

// NewRouteStore creates a new in-memory route store.
func NewRouteStore() *RouteStore {
	t := newTenantTable(
		func(r *domain.DeliveryRoute) string { return r.ID },
		func(r *domain.DeliveryRoute) string { return r.TenantID },
		func(a, b *domain.DeliveryRoute) bool {
			if a.Weekday != b.Weekday {
				return a.Weekday < b.Weekday
			}
			return a.Name < b.Name
		},
	)
	t.clone = func(r domain.DeliveryRoute) domain.DeliveryRoute {
		r.Stops = slices.Clone(r.Stops)
		return r
	}
	return &RouteStore{table: t}
}

// Save stores or updates a route and its stops.
func (s *RouteStore) Save(_ context.Context, route domain.DeliveryRoute) error {
	s.table.put(route)
	return nil
}

// Get retrieves a route by ID within a tenant.
func (s *RouteStore) Get(_ context.Context, tenantID, id string) (*domain.DeliveryRoute, error) {
	return s.table.get(tenantID, id)
}

// List returns a tenant's routes.
func (s *RouteStore) List(_ context.Context, tenantID string) ([]domain.DeliveryRoute, error) {
	return s.table.filter(tenantID, nil), nil
}

// Delete removes a route.
func (s *RouteStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	return nil
}
