package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// InventoryStore persists stock items. SKUs are unique within a tenant.
type InventoryStore interface {
	// Save stores or updates an item.
	Save(ctx context.Context, item domain.InventoryItem) error

	// SaveBatch stores or updates items atomically.
	SaveBatch(ctx context.Context, items []domain.InventoryItem) error

	// Get retrieves an item by ID within a tenant.
	Get(ctx context.Context, tenantID, id string) (*domain.InventoryItem, error)

	// GetBySKU retrieves an item by SKU within a tenant.
	GetBySKU(ctx context.Context, tenantID, sku string) (*domain.InventoryItem, error)

	// List returns a tenant's items ordered by SKU.
	List(ctx context.Context, tenantID string) ([]domain.InventoryItem, error)

	// Delete removes an item.
	Delete(ctx context.Context, tenantID, id string) error
}
