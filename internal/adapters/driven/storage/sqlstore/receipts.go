package sqlstore

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// receiptStore implements driven.ReceiptStore.
type receiptStore struct {
	store *Store
}

var _ driven.ReceiptStore = (*receiptStore)(nil)

const receiptColumns = `id, tenant_id, name, paper_size, business_name, logo_url, address, phone, tax_id,
	header_note, footer_markdown, accent_color, show_pet_name, show_staff_name, show_tax_breakdown,
	is_default, created_at, updated_at`

// Save stores or updates a template.
func (s *receiptStore) Save(ctx context.Context, t domain.ReceiptTemplate) error {
	err := s.store.exec(ctx, `
		INSERT INTO receipt_templates (`+receiptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			paper_size = excluded.paper_size,
			business_name = excluded.business_name,
			logo_url = excluded.logo_url,
			address = excluded.address,
			phone = excluded.phone,
			tax_id = excluded.tax_id,
			header_note = excluded.header_note,
			footer_markdown = excluded.footer_markdown,
			accent_color = excluded.accent_color,
			show_pet_name = excluded.show_pet_name,
			show_staff_name = excluded.show_staff_name,
			show_tax_breakdown = excluded.show_tax_breakdown,
			is_default = excluded.is_default,
			updated_at = excluded.updated_at
	`, t.ID, t.TenantID, t.Name, string(t.PaperSize), t.BusinessName, t.LogoURL, t.Address, t.Phone,
		t.TaxID, t.HeaderNote, t.FooterMarkdown, t.AccentColor, t.ShowPetName, t.ShowStaffName,
		t.ShowTaxBreakdown, t.IsDefault, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	return saveError("receipt template", err)
}

// Get retrieves a template by ID within a tenant.
func (s *receiptStore) Get(ctx context.Context, tenantID, id string) (*domain.ReceiptTemplate, error) {
	return queryOne(ctx, s.store, scanReceiptTemplate,
		`SELECT `+receiptColumns+` FROM receipt_templates WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

// List returns a tenant's templates ordered by name.
func (s *receiptStore) List(ctx context.Context, tenantID string) ([]domain.ReceiptTemplate, error) {
	templates, err := queryAll(ctx, s.store, scanReceiptTemplate,
		`SELECT `+receiptColumns+` FROM receipt_templates WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing receipt templates: %w", err)
	}
	return templates, nil
}

// Delete removes a template.
func (s *receiptStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("receipt template", s.store.exec(ctx,
		`DELETE FROM receipt_templates WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

func scanReceiptTemplate(row scanner) (*domain.ReceiptTemplate, error) {
	var t domain.ReceiptTemplate
	var paper, createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.TenantID, &t.Name, &paper, &t.BusinessName, &t.LogoURL, &t.Address,
		&t.Phone, &t.TaxID, &t.HeaderNote, &t.FooterMarkdown, &t.AccentColor, &t.ShowPetName,
		&t.ShowStaffName, &t.ShowTaxBreakdown, &t.IsDefault, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning receipt template: %w", err)
	}
	t.PaperSize = domain.PaperSize(paper)
	var ts stamps
	t.CreatedAt = ts.at("created_at", createdAt)
	t.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning receipt template %s: %w", t.ID, ts.err)
	}
	return &t, nil
}
