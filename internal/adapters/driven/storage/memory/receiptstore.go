package memory

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure ReceiptStore implements the interface.
var _ driven.ReceiptStore = (*ReceiptStore)(nil)

// ReceiptStore is an in-memory implementation of driven.ReceiptStore.
type ReceiptStore struct {
	table *tenantTable[domain.ReceiptTemplate]
}

// NewReceiptStore creates a new in-memory receipt template store.
func NewReceiptStore() *ReceiptStore {
	return &ReceiptStore{table: newTenantTable(
		func(r *domain.ReceiptTemplate) string { return r.ID },
		func(r *domain.ReceiptTemplate) string { return r.TenantID },
		func(a, b *domain.ReceiptTemplate) bool { return a.Name < b.Name },
	)}
}

// Save stores or updates a template.
func (s *ReceiptStore) Save(_ context.Context, tmpl domain.ReceiptTemplate) error {
	s.table.put(tmpl)
	return nil
}

// Get retrieves a template by ID within a tenant.
func (s *ReceiptStore) Get(_ context.Context, tenantID, id string) (*domain.ReceiptTemplate, error) {
	return s.table.get(tenantID, id)
}

// List returns a tenant's templates.
func (s *ReceiptStore) List(_ context.Context, tenantID string) ([]domain.ReceiptTemplate, error) {
	return s.table.filter(tenantID, nil), nil
}

// Delete removes a template.
func (s *ReceiptStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	return nil
}
