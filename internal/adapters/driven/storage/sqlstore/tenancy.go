package sqlstore

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// ==================== Company Store ====================

type companyStore struct {
	store *Store
}

var _ driven.CompanyStore = (*companyStore)(nil)

const companyColumns = `id, name, tax_id, plan, created_at, updated_at`

// Save stores or updates a company.
func (s *companyStore) Save(ctx context.Context, c domain.Company) error {
	err := s.store.exec(ctx, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			tax_id = excluded.tax_id,
			plan = excluded.plan,
			updated_at = excluded.updated_at
	`, c.ID, c.Name, c.TaxID, string(c.Plan), formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	return saveError("company", err)
}

// Get retrieves a company by ID.
func (s *companyStore) Get(ctx context.Context, id string) (*domain.Company, error) {
	return queryOne(ctx, s.store, scanCompany,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
}

// List returns all companies ordered by name.
func (s *companyStore) List(ctx context.Context) ([]domain.Company, error) {
	companies, err := queryAll(ctx, s.store, scanCompany,
		`SELECT `+companyColumns+` FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	return companies, nil
}

// Delete removes a company. Companies that still own tenants are refused.
func (s *companyStore) Delete(ctx context.Context, id string) error {
	return deleteError("company", s.store.exec(ctx, `DELETE FROM companies WHERE id = ?`, id))
}

func scanCompany(row scanner) (*domain.Company, error) {
	var c domain.Company
	var plan, createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Name, &c.TaxID, &plan, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning company: %w", err)
	}
	c.Plan = domain.Plan(plan)
	var ts stamps
	c.CreatedAt = ts.at("created_at", createdAt)
	c.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning company %s: %w", c.ID, ts.err)
	}
	return &c, nil
}

// ==================== Tenant Store ====================

type tenantStore struct {
	store *Store
}

var _ driven.TenantStore = (*tenantStore)(nil)

const tenantColumns = `id, company_id, slug, name, timezone, slot_minutes, hours, address, phone, created_at, updated_at`

// Save stores or updates a tenant. Slugs are unique.
func (s *tenantStore) Save(ctx context.Context, t domain.Tenant) error {
	hours, err := encodeJSON(t.Hours)
	if err != nil {
		return fmt.Errorf("encoding hours: %w", err)
	}
	address, err := encodeJSON(t.Address)
	if err != nil {
		return fmt.Errorf("encoding address: %w", err)
	}

	err = s.store.exec(ctx, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_id = excluded.company_id,
			slug = excluded.slug,
			name = excluded.name,
			timezone = excluded.timezone,
			slot_minutes = excluded.slot_minutes,
			hours = excluded.hours,
			address = excluded.address,
			phone = excluded.phone,
			updated_at = excluded.updated_at
	`, t.ID, t.CompanyID, t.Slug, t.Name, t.Timezone, t.SlotMinutes, hours, address, t.Phone,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	return saveError("tenant", err)
}

// Get retrieves a tenant by ID.
func (s *tenantStore) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	return queryOne(ctx, s.store, scanTenant,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id)
}

// GetBySlug retrieves a tenant by slug.
func (s *tenantStore) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return queryOne(ctx, s.store, scanTenant,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = ?`, slug)
}

// List returns all tenants ordered by slug.
func (s *tenantStore) List(ctx context.Context) ([]domain.Tenant, error) {
	tenants, err := queryAll(ctx, s.store, scanTenant,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	return tenants, nil
}

// ListByCompany returns the tenants owned by a company.
func (s *tenantStore) ListByCompany(ctx context.Context, companyID string) ([]domain.Tenant, error) {
	tenants, err := queryAll(ctx, s.store, scanTenant,
		`SELECT `+tenantColumns+` FROM tenants WHERE company_id = ? ORDER BY slug`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	return tenants, nil
}

// Delete removes a tenant and every row scoped to it.
func (s *tenantStore) Delete(ctx context.Context, id string) error {
	return deleteError("tenant", s.store.exec(ctx, `DELETE FROM tenants WHERE id = ?`, id))
}

func scanTenant(row scanner) (*domain.Tenant, error) {
	var t domain.Tenant
	var hours, address, createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.CompanyID, &t.Slug, &t.Name, &t.Timezone, &t.SlotMinutes,
		&hours, &address, &t.Phone, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning tenant: %w", err)
	}
	if err := decodeJSON(hours, &t.Hours); err != nil {
		return nil, fmt.Errorf("decoding hours of tenant %s: %w", t.ID, err)
	}
	if err := decodeJSON(address, &t.Address); err != nil {
		return nil, fmt.Errorf("decoding address of tenant %s: %w", t.ID, err)
	}
	var ts stamps
	t.CreatedAt = ts.at("created_at", createdAt)
	t.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning tenant %s: %w", t.ID, ts.err)
	}
	return &t, nil
}
