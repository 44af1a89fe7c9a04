package domain

import "time"

// InventoryItem is a stocked product identified by SKU within a tenant.
type InventoryItem struct {
	ID       string
	TenantID string
	SKU      string
	Name     string
	Category string

	// Unit is the counting unit, such as "pz", "caja" or "ml".
	Unit string

	Quantity   float64
	MinStock   float64
	CostCents  int64
	PriceCents int64
	Supplier   string
	Lot        string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsLowStock reports whether the quantity is at or below the minimum.
// Items without a minimum are never low.
func (i *InventoryItem) IsLowStock() bool {
	return i.MinStock > 0 && i.Quantity <= i.MinStock
}

// IsExpired reports whether the item's expiry date has passed at now.
func (i *InventoryItem) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// ImportMode controls how imported rows combine with existing stock.
type ImportMode string

// Import modes.
const (
	// ImportMerge overwrites fields present in the row and keeps the stored
	// quantity when the row has none.
	ImportMerge ImportMode = "merge"

	// ImportAdd adds the row quantity to the stored quantity.
	ImportAdd ImportMode = "add"

	// ImportReplace overwrites the stored item with the row.
	ImportReplace ImportMode = "replace"
)

// IsValid returns true if the mode is recognised.
func (m ImportMode) IsValid() bool {
	switch m {
	case ImportMerge, ImportAdd, ImportReplace:
		return true
	default:
		return false
	}
}

// ImportRow is one parsed row ready for validation.
type ImportRow struct {
	// Line is the 1-based source line, or the item index for AI-parsed input.
	Line int

	Item InventoryItem

	// HasQuantity is false when the source row had no quantity column value.
	HasQuantity bool
}

// RowError reports a row that could not be imported.
type RowError struct {
	Line    int
	Field   string
	Message string
}

// ImportReport summarises an import batch.
type ImportReport struct {
	// BatchID is a time-sortable identifier for the batch.
	BatchID string

	TenantID string
	Parser   string
	Source   string
	Mode     ImportMode
	DryRun   bool

	Created int
	Updated int
	Skipped int
	Errors  []RowError

	StartedAt time.Time
	EndedAt   time.Time
}

// Total returns the number of rows that were written or would be written.
func (r *ImportReport) Total() int {
	return r.Created + r.Updated
}
