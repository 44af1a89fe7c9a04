package driving

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// CompanyService manages companies, the billing owners of tenants.
type CompanyService interface {
	// Create registers a company. An empty ID is generated.
	Create(ctx context.Context, company domain.Company) (*domain.Company, error)

	Get(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, company domain.Company) error

	// Delete removes a company that owns no tenants.
	Delete(ctx context.Context, id string) error
}

// TenantService manages clinics.
type TenantService interface {
	// Create registers a tenant under its company, applying defaults
	// and enforcing the company plan's tenant limit.
	Create(ctx context.Context, tenant domain.Tenant) (*domain.Tenant, error)

	Get(ctx context.Context, id string) (*domain.Tenant, error)

	// Resolve finds a tenant by ID or slug.
	Resolve(ctx context.Context, ref string) (*domain.Tenant, error)

	List(ctx context.Context) ([]domain.Tenant, error)
	Update(ctx context.Context, tenant domain.Tenant) error

	// Delete removes a tenant that has no appointments.
	Delete(ctx context.Context, id string) error
}
