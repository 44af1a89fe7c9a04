package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// ClientStore persists clients. Reads are scoped to a tenant;
// a client owned by another tenant is reported as domain.ErrNotFound.
type ClientStore interface {
	// Save stores or updates a client.
	Save(ctx context.Context, client domain.Client) error

	// Get retrieves a client by ID within a tenant.
	Get(ctx context.Context, tenantID, id string) (*domain.Client, error)

	// List returns a tenant's clients ordered by last and first name.
	List(ctx context.Context, tenantID string) ([]domain.Client, error)

	// Delete removes a client and its pets.
	Delete(ctx context.Context, tenantID, id string) error
}

// PetStore persists pets.
type PetStore interface {
	// Save stores or updates a pet.
	Save(ctx context.Context, pet domain.Pet) error

	// Get retrieves a pet by ID within a tenant.
	Get(ctx context.Context, tenantID, id string) (*domain.Pet, error)

	// List returns all pets of a tenant ordered by name.
	List(ctx context.Context, tenantID string) ([]domain.Pet, error)

	// ListByClient returns the pets owned by a client.
	ListByClient(ctx context.Context, tenantID, clientID string) ([]domain.Pet, error)

	// Delete removes a pet.
	Delete(ctx context.Context, tenantID, id string) error
}
