package memory

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure stores implement the interfaces.
var (
	_ driven.ClientStore = (*ClientStore)(nil)
	_ driven.PetStore    = (*PetStore)(nil)
)

// PetStore is an in-memory implementation of driven.PetStore.
type PetStore struct {
	table *tenantTable[domain.Pet]
}

// NewPetStore creates a new in-memory pet store.
func NewPetStore() *PetStore {
	return &PetStore{table: newTenantTable(
		func(p *domain.Pet) string { return p.ID },
		func(p *domain.Pet) string { return p.TenantID },
		func(a, b *domain.Pet) bool { return a.Name < b.Name },
	)}
}

// Save stores or updates a pet.
func (s *PetStore) Save(_ context.Context, pet domain.Pet) error {
	s.table.put(pet)
	return nil
}

// Get retrieves a pet by ID within a tenant.
func (s *PetStore) Get(_ context.Context, tenantID, id string) (*domain.Pet, error) {
	return s.table.get(tenantID, id)
}

// List returns all pets of a tenant.
func (s *PetStore) List(_ context.Context, tenantID string) ([]domain.Pet, error) {
	return s.table.filter(tenantID, nil), nil
}

// ListByClient returns the pets owned by a client.
func (s *PetStore) ListByClient(_ context.Context, tenantID, clientID string) ([]domain.Pet, error) {
	return s.table.filter(tenantID, func(p *domain.Pet) bool { return p.ClientID == clientID }), nil
}

// Delete removes a pet.
func (s *PetStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	return nil
}

// ClientStore is an in-memory implementation of driven.ClientStore.
// Deleting a client removes its pets from the linked PetStore.
type ClientStore struct {
	table *tenantTable[domain.Client]
	pets  *PetStore
}

// NewClientStore creates a new in-memory client store. pets may be nil.
func NewClientStore(pets *PetStore) *ClientStore {
	return &ClientStore{
		table: newTenantTable(
			func(c *domain.Client) string { return c.ID },
			func(c *domain.Client) string { return c.TenantID },
			func(a, b *domain.Client) bool {
				if a.LastName != b.LastName {
					return a.LastName < b.LastName
				}
				return a.FirstName < b.FirstName
			},
		),
		pets: pets,
	}
}

// Save stores or updates a client.
func (s *ClientStore) Save(_ context.Context, client domain.Client) error {
	s.table.put(client)
	return nil
}

// Get retrieves a client by ID within a tenant.
func (s *ClientStore) Get(_ context.Context, tenantID, id string) (*domain.Client, error) {
	return s.table.get(tenantID, id)
}

// List returns a tenant's clients.
func (s *ClientStore) List(_ context.Context, tenantID string) ([]domain.Client, error) {
	return s.table.filter(tenantID, nil), nil
}

// Delete removes a client and its pets.
func (s *ClientStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	if s.pets != nil {
		s.pets.table.removeWhere(tenantID, func(p *domain.Pet) bool { return p.ClientID == id })
	}
	return nil
}
