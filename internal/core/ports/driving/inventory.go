package driving

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// ImportRequest describes one inventory upload.
type ImportRequest struct {
	TenantID string

	// Parser names the registered parser, "csv" or "ai".
	Parser string

	// Source is the file name or label, used in reports and diagnostics.
	Source string

	Blob   []byte
	Mode   domain.ImportMode
	DryRun bool
}

// InventoryService manages stock and imports.
type InventoryService interface {
	// Import parses and applies an upload. Row problems are reported,
	// not returned as errors.
	Import(ctx context.Context, req ImportRequest) (*domain.ImportReport, error)

	// Parsers lists the available parser names.
	Parsers() []string

	Create(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	Get(ctx context.Context, tenantID, id string) (*domain.InventoryItem, error)
	List(ctx context.Context, tenantID string) ([]domain.InventoryItem, error)
	Update(ctx context.Context, item domain.InventoryItem) error
	Delete(ctx context.Context, tenantID, id string) error

	// LowStock returns items at or below their minimum.
	LowStock(ctx context.Context, tenantID string) ([]domain.InventoryItem, error)

	// Adjust changes an item's quantity by delta, never below zero.
	Adjust(ctx context.Context, tenantID, sku string, delta float64) (*domain.InventoryItem, error)
}
