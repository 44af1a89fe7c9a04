package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// CompanyStore persists companies.
type CompanyStore interface {
	// Save stores or updates a company.
	Save(ctx context.Context, company domain.Company) error

	// Get retrieves a company by ID.
	Get(ctx context.Context, id string) (*domain.Company, error)

	// List returns all companies ordered by name.
	List(ctx context.Context) ([]domain.Company, error)

	// Delete removes a company.
	Delete(ctx context.Context, id string) error
}

// TenantStore persists tenants.
type TenantStore interface {
	// Save stores or updates a tenant.
	Save(ctx context.Context, tenant domain.Tenant) error

	// Get retrieves a tenant by ID.
	Get(ctx context.Context, id string) (*domain.Tenant, error)

	// GetBySlug retrieves a tenant by its slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)

	// List returns all tenants ordered by slug.
	List(ctx context.Context) ([]domain.Tenant, error)

	// ListByCompany returns the tenants owned by a company.
	ListByCompany(ctx context.Context, companyID string) ([]domain.Tenant, error)

	// Delete removes a tenant.
	Delete(ctx context.Context, id string) error
}
