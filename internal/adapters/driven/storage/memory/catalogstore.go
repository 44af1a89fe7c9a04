package memory

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure stores implement the interfaces.
var (
	_ driven.StaffStore   = (*StaffStore)(nil)
	_ driven.RoomStore    = (*RoomStore)(nil)
	_ driven.ServiceStore = (*ServiceStore)(nil)
)

// StaffStore is an in-memory implementation of driven.StaffStore.
type StaffStore struct {
	table *tenantTable[domain.Staff]
}

// NewStaffStore creates a new in-memory staff store.
func NewStaffStore() *StaffStore {
	return &StaffStore{table: newTenantTable(
		func(s *domain.Staff) string { return s.ID },
		func(s *domain.Staff) string { return s.TenantID },
		func(a, b *domain.Staff) bool { return a.Name < b.Name },
	)}
}

// Save stores or updates a staff member.
func (s *StaffStore) Save(_ context.Context, staff domain.Staff) error {
	s.table.put(staff)
	return nil
}

// Get retrieves a staff member by ID within a tenant.
func (s *StaffStore) Get(_ context.Context, tenantID, id string) (*domain.Staff, error) {
	return s.table.get(tenantID, id)
}

// List returns a tenant's staff.
func (s *StaffStore) List(_ context.Context, tenantID string) ([]domain.Staff, error) {
	return s.table.filter(tenantID, nil), nil
}

// Delete removes a staff member.
func (s *StaffStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	return nil
}

// RoomStore is an in-memory implementation of driven.RoomStore.
type RoomStore struct {
	table *tenantTable[domain.Room]
}

// NewRoomStore creates a new in-memory room store.
func NewRoomStore() *RoomStore {
	return &RoomStore{table: newTenantTable(
		func(r *domain.Room) string { return r.ID },
		func(r *domain.Room) string { return r.TenantID },
		func(a, b *domain.Room) bool { return a.Name < b.Name },
	)}
}

// Save stores or updates a room.
func (s *RoomStore) Save(_ context.Context, room domain.Room) error {
	s.table.put(room)
	return nil
}

// Get retrieves a room by ID within a tenant.
func (s *RoomStore) Get(_ context.Context, tenantID, id string) (*domain.Room, error) {
	return s.table.get(tenantID, id)
}

// List returns a tenant's rooms.
func (s *RoomStore) List(_ context.Context, tenantID string) ([]domain.Room, error) {
	return s.table.filter(tenantID, nil), nil
}

// Delete removes a room.
func (s *RoomStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	return nil
}

// ServiceStore is an in-memory implementation of driven.ServiceStore.
type ServiceStore struct {
	table *tenantTable[domain.Service]
}

// NewServiceStore creates a new in-memory service catalog store.
func NewServiceStore() *ServiceStore {
	return &ServiceStore{table: newTenantTable(
		func(s *domain.Service) string { return s.ID },
		func(s *domain.Service) string { return s.TenantID },
		func(a, b *domain.Service) bool { return a.Name < b.Name },
	)}
}

// Save stores or updates a service.
func (s *ServiceStore) Save(_ context.Context, service domain.Service) error {
	s.table.put(service)
	return nil
}

// Get retrieves a service by ID within a tenant.
func (s *ServiceStore) Get(_ context.Context, tenantID, id string) (*domain.Service, error) {
	return s.table.get(tenantID, id)
}

// List returns a tenant's services.
func (s *ServiceStore) List(_ context.Context, tenantID string) ([]domain.Service, error) {
	return s.table.filter(tenantID, nil), nil
}

// Delete removes a service.
func (s *ServiceStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	return nil
}
