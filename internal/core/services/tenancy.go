package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ensure services implement the interfaces.
var (
	_ driving.CompanyService = (*CompanyService)(nil)
	_ driving.TenantService  = (*TenantService)(nil)
)

// CompanyService manages companies.
type CompanyService struct {
	companies driven.CompanyStore
	tenants   driven.TenantStore
	now       func() time.Time
}

// NewCompanyService creates a new company service.
func NewCompanyService(companies driven.CompanyStore, tenants driven.TenantStore) *CompanyService {
	return &CompanyService{companies: companies, tenants: tenants, now: time.Now}
}

// Create registers a company. The plan defaults to free.
func (s *CompanyService) Create(ctx context.Context, company domain.Company) (*domain.Company, error) {
	if s.companies == nil {
		return nil, domain.ErrNotImplemented
	}
	if company.Plan == "" {
		company.Plan = domain.PlanFree
	}
	if err := validateCompany(&company); err != nil {
		return nil, err
	}
	if company.ID == "" {
		company.ID = newID()
	} else if existing, err := s.companies.Get(ctx, company.ID); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	company.CreatedAt = s.now().UTC()
	company.UpdatedAt = company.CreatedAt
	if err := s.companies.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("saving company: %w", err)
	}
	return &company, nil
}

// Get retrieves a company by ID.
func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	if s.companies == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.companies.Get(ctx, id)
}

// List returns all companies.
func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	if s.companies == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.companies.List(ctx)
}

// Update modifies a company.
func (s *CompanyService) Update(ctx context.Context, company domain.Company) error {
	if s.companies == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.companies.Get(ctx, company.ID)
	if err != nil {
		return err
	}
	if err := validateCompany(&company); err != nil {
		return err
	}
	company.CreatedAt = existing.CreatedAt
	company.UpdatedAt = s.now().UTC()
	return s.companies.Save(ctx, company)
}

// Delete removes a company that owns no tenants.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if s.companies == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.companies.Get(ctx, id); err != nil {
		return err
	}
	if s.tenants != nil {
		tenants, err := s.tenants.ListByCompany(ctx, id)
		if err != nil {
			return err
		}
		if len(tenants) > 0 {
			return fmt.Errorf("company owns %d tenants: %w", len(tenants), domain.ErrInUse)
		}
	}
	return s.companies.Delete(ctx, id)
}

func validateCompany(c *domain.Company) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := required("name", c.Name); err != nil {
		return err
	}
	if !c.Plan.IsValid() {
		return domain.Invalid("plan", "unknown plan %q", c.Plan)
	}
	return nil
}

// TenantService manages tenants.
type TenantService struct {
	tenants   driven.TenantStore
	companies driven.CompanyStore
	appts     driven.AppointmentStore
	now       func() time.Time
}

// NewTenantService creates a new tenant service.
func NewTenantService(
	tenants driven.TenantStore,
	companies driven.CompanyStore,
	appts driven.AppointmentStore,
) *TenantService {
	return &TenantService{tenants: tenants, companies: companies, appts: appts, now: time.Now}
}

// Create registers a tenant, applying defaults and the company's plan limit.
func (s *TenantService) Create(ctx context.Context, tenant domain.Tenant) (*domain.Tenant, error) {
	if s.tenants == nil || s.companies == nil {
		return nil, domain.ErrNotImplemented
	}
	company, err := s.companies.Get(ctx, tenant.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("company %q: %w", tenant.CompanyID, err)
	}
	if limit := company.Plan.MaxTenants(); limit > 0 {
		existing, err := s.tenants.ListByCompany(ctx, company.ID)
		if err != nil {
			return nil, err
		}
		if len(existing) >= limit {
			return nil, fmt.Errorf("plan %s allows %d tenants: %w", company.Plan, limit, domain.ErrPlanLimitReached)
		}
	}

	applyTenantDefaults(&tenant)
	if err := validateTenant(&tenant); err != nil {
		return nil, err
	}
	if tenant.ID == "" {
		tenant.ID = newID()
	}
	if _, err := s.tenants.GetBySlug(ctx, tenant.Slug); err == nil {
		return nil, fmt.Errorf("slug %q: %w", tenant.Slug, domain.ErrAlreadyExists)
	}
	tenant.CreatedAt = s.now().UTC()
	tenant.UpdatedAt = tenant.CreatedAt
	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, fmt.Errorf("saving tenant: %w", err)
	}
	return &tenant, nil
}

// Get retrieves a tenant by ID.
func (s *TenantService) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	if s.tenants == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.tenants.Get(ctx, id)
}

// Resolve finds a tenant by ID, then by slug.
func (s *TenantService) Resolve(ctx context.Context, ref string) (*domain.Tenant, error) {
	if s.tenants == nil {
		return nil, domain.ErrNotImplemented
	}
	tenant, err := s.tenants.Get(ctx, ref)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.tenants.GetBySlug(ctx, strings.ToLower(ref))
}

// List returns all tenants.
func (s *TenantService) List(ctx context.Context) ([]domain.Tenant, error) {
	if s.tenants == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.tenants.List(ctx)
}

// Update modifies a tenant. The owning company cannot change.
func (s *TenantService) Update(ctx context.Context, tenant domain.Tenant) error {
	if s.tenants == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.tenants.Get(ctx, tenant.ID)
	if err != nil {
		return err
	}
	tenant.CompanyID = existing.CompanyID
	applyTenantDefaults(&tenant)
	if err := validateTenant(&tenant); err != nil {
		return err
	}
	tenant.CreatedAt = existing.CreatedAt
	tenant.UpdatedAt = s.now().UTC()
	return s.tenants.Save(ctx, tenant)
}

// Delete removes a tenant that has never had appointments.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	if s.tenants == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.tenants.Get(ctx, id); err != nil {
		return err
	}
	if s.appts != nil {
		appts, err := s.appts.ListRange(ctx, id, time.Time{}, farFuture)
		if err != nil {
			return err
		}
		if len(appts) > 0 {
			return fmt.Errorf("tenant has %d appointments: %w", len(appts), domain.ErrInUse)
		}
	}
	return s.tenants.Delete(ctx, id)
}

func applyTenantDefaults(t *domain.Tenant) {
	t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
	t.Name = strings.TrimSpace(t.Name)
	if t.Timezone == "" {
		t.Timezone = domain.DefaultTimezone
	}
	if t.SlotMinutes == 0 {
		t.SlotMinutes = domain.DefaultSlotMinutes
	}
	if t.Hours.IsZero() {
		t.Hours = domain.DefaultBusinessHours()
	}
}

func validateTenant(t *domain.Tenant) error {
	if err := required("name", t.Name); err != nil {
		return err
	}
	if !slugPattern.MatchString(t.Slug) {
		return domain.Invalid("slug", "%q must be 2-40 lowercase letters, digits or dashes", t.Slug)
	}
	if _, err := t.Location(); err != nil {
		return domain.Invalid("timezone", "unknown timezone %q", t.Timezone)
	}
	if !domain.ValidSlotMinutes(t.SlotMinutes) {
		return domain.Invalid("slot_minutes", "%d is not one of 5, 10, 15, 20, 30, 60", t.SlotMinutes)
	}
	if pc := t.Address.PostalCode; pc != "" && !domain.IsPostalCode(pc) {
		return domain.Invalid("postal_code", "%q is not a five-digit postal code", pc)
	}
	return t.Hours.Validate()
}
