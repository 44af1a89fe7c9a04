package driving

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// ClientService manages client and pet intake.
type ClientService interface {
	// Create validates and stores a client.
	Create(ctx context.Context, client domain.Client) (*domain.Client, error)

	Get(ctx context.Context, tenantID, id string) (*domain.Client, error)
	List(ctx context.Context, tenantID string) ([]domain.Client, error)

	// Search matches name, phone or email, ignoring case and accents.
	Search(ctx context.Context, tenantID, query string) ([]domain.Client, error)

	Update(ctx context.Context, client domain.Client) error

	// Delete removes a client and its pets. Clients with upcoming
	// appointments cannot be deleted.
	Delete(ctx context.Context, tenantID, id string) error

	// Intake creates a client together with its pets.
	Intake(ctx context.Context, client domain.Client, pets []domain.Pet) (*domain.Client, []domain.Pet, error)

	// AddPet validates and stores a pet for an existing client.
	AddPet(ctx context.Context, pet domain.Pet) (*domain.Pet, error)

	GetPet(ctx context.Context, tenantID, id string) (*domain.Pet, error)
	ListPets(ctx context.Context, tenantID, clientID string) ([]domain.Pet, error)
	UpdatePet(ctx context.Context, pet domain.Pet) error
	DeletePet(ctx context.Context, tenantID, id string) error
}
