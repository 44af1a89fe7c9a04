package memory

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure InventoryStore implements the interface.
var _ driven.InventoryStore = (*InventoryStore)(nil)

// InventoryStore is an in-memory implementation of driven.InventoryStore.
type InventoryStore struct {
	table *tenantTable[domain.InventoryItem]
}

// NewInventoryStore creates a new in-memory inventory store.
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{table: newTenantTable(
		func(i *domain.InventoryItem) string { return i.ID },
		func(i *domain.InventoryItem) string { return i.TenantID },
		func(a, b *domain.InventoryItem) bool { return a.SKU < b.SKU },
	)}
}

// Save stores or updates an item. A different item with the same SKU is rejected.
func (s *InventoryStore) Save(_ context.Context, item domain.InventoryItem) error {
	if existing, err := s.table.find(item.TenantID, func(i *domain.InventoryItem) bool {
		return i.SKU == item.SKU
	}); err == nil && existing.ID != item.ID {
		return domain.ErrAlreadyExists
	}
	s.table.put(item)
	return nil
}

// SaveBatch stores items, rejecting the whole batch on a SKU clash.
func (s *InventoryStore) SaveBatch(ctx context.Context, items []domain.InventoryItem) error {
	for i := range items {
		item := &items[i]
		if existing, err := s.GetBySKU(ctx, item.TenantID, item.SKU); err == nil && existing.ID != item.ID {
			return domain.ErrAlreadyExists
		}
	}
	for _, item := range items {
		s.table.put(item)
	}
	return nil
}

// Get retrieves an item by ID within a tenant.
func (s *InventoryStore) Get(_ context.Context, tenantID, id string) (*domain.InventoryItem, error) {
	return s.table.get(tenantID, id)
}

// GetBySKU retrieves an item by SKU within a tenant.
func (s *InventoryStore) GetBySKU(_ context.Context, tenantID, sku string) (*domain.InventoryItem, error) {
	return s.table.find(tenantID, func(i *domain.InventoryItem) bool { return i.SKU == sku })
}

// List returns a tenant's items.
func (s *InventoryStore) List(_ context.Context, tenantID string) ([]domain.InventoryItem, error) {
	return s.table.filter(tenantID, nil), nil
}

// Delete removes an item.
func (s *InventoryStore) Delete(_ context.Context, tenantID, id string) error {
	s.table.remove(tenantID, id)
	return nil
}
