package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure stores implement the interfaces.
var (
	_ driven.CompanyStore = (*CompanyStore)(nil)
	_ driven.TenantStore  = (*TenantStore)(nil)
)

// CompanyStore is an in-memory implementation of driven.CompanyStore.
type CompanyStore struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
}

// NewCompanyStore creates a new in-memory company store.
func NewCompanyStore() *CompanyStore {
	return &CompanyStore{companies: make(map[string]domain.Company)}
}

// Save stores or updates a company.
func (s *CompanyStore) Save(_ context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.ID] = company
	return nil
}

// Get retrieves a company by ID.
func (s *CompanyStore) Get(_ context.Context, id string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	company, ok := s.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &company, nil
}

// List returns all companies ordered by name.
func (s *CompanyStore) List(_ context.Context) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Company, 0, len(s.companies))
	for _, c := range s.companies {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Delete removes a company.
func (s *CompanyStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.companies, id)
	return nil
}

// TenantStore is an in-memory implementation of driven.TenantStore.
type TenantStore struct {
	mu      sync.RWMutex
	tenants map[string]domain.Tenant
}

// NewTenantStore creates a new in-memory tenant store.
func NewTenantStore() *TenantStore {
	return &TenantStore{tenants: make(map[string]domain.Tenant)}
}

// Save stores or updates a tenant.
func (s *TenantStore) Save(_ context.Context, tenant domain.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.tenants {
		if id != tenant.ID && existing.Slug == tenant.Slug {
			return domain.ErrAlreadyExists
		}
	}
	s.tenants[tenant.ID] = tenant
	return nil
}

// Get retrieves a tenant by ID.
func (s *TenantStore) Get(_ context.Context, id string) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant, ok := s.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tenant, nil
}

// GetBySlug retrieves a tenant by slug.
func (s *TenantStore) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tenant := range s.tenants {
		if tenant.Slug == slug {
			return &tenant, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all tenants ordered by slug.
func (s *TenantStore) List(_ context.Context) ([]domain.Tenant, error) {
	return s.list(""), nil
}

// ListByCompany returns the tenants owned by a company.
func (s *TenantStore) ListByCompany(_ context.Context, companyID string) ([]domain.Tenant, error) {
	return s.list(companyID), nil
}

func (s *TenantStore) list(companyID string) []domain.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Tenant, 0, len(s.tenants))
	for _, tenant := range s.tenants {
		if companyID == "" || tenant.CompanyID == companyID {
			result = append(result, tenant)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result
}

// Delete removes a tenant.
func (s *TenantStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenants, id)
	return nil
}
