package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// inventoryStore implements driven.InventoryStore.
type inventoryStore struct {
	store *Store
}

var _ driven.InventoryStore = (*inventoryStore)(nil)

const inventoryColumns = `id, tenant_id, sku, name, category, unit, quantity, min_stock, cost_cents, price_cents,
	supplier, lot, expires_at, created_at, updated_at`

const upsertInventory = `
	INSERT INTO inventory_items (` + inventoryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		sku = excluded.sku,
		name = excluded.name,
		category = excluded.category,
		unit = excluded.unit,
		quantity = excluded.quantity,
		min_stock = excluded.min_stock,
		cost_cents = excluded.cost_cents,
		price_cents = excluded.price_cents,
		supplier = excluded.supplier,
		lot = excluded.lot,
		expires_at = excluded.expires_at,
		updated_at = excluded.updated_at`

func inventoryArgs(i *domain.InventoryItem) []any {
	return []any{i.ID, i.TenantID, i.SKU, i.Name, i.Category, i.Unit, i.Quantity, i.MinStock,
		i.CostCents, i.PriceCents, i.Supplier, i.Lot, formatNullableTime(i.ExpiresAt),
		formatTime(i.CreatedAt), formatTime(i.UpdatedAt)}
}

// Save stores or updates an item. A different item with the same SKU is
// rejected with domain.ErrAlreadyExists.
func (s *inventoryStore) Save(ctx context.Context, item domain.InventoryItem) error {
	return saveError("inventory item", s.store.exec(ctx, upsertInventory, inventoryArgs(&item)...))
}

// SaveBatch stores items in one transaction; a SKU clash rejects the whole batch.
func (s *inventoryStore) SaveBatch(ctx context.Context, items []domain.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.store.dialect.rebind(upsertInventory))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range items {
			if _, err := stmt.ExecContext(ctx, inventoryArgs(&items[i])...); err != nil {
				return fmt.Errorf("sku %q: %w", items[i].SKU, err)
			}
		}
		return nil
	})
	return saveError("inventory batch", err)
}

// Get retrieves an item by ID within a tenant.
func (s *inventoryStore) Get(ctx context.Context, tenantID, id string) (*domain.InventoryItem, error) {
	return queryOne(ctx, s.store, scanInventoryItem,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

// GetBySKU retrieves an item by SKU within a tenant.
func (s *inventoryStore) GetBySKU(ctx context.Context, tenantID, sku string) (*domain.InventoryItem, error) {
	return queryOne(ctx, s.store, scanInventoryItem,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE tenant_id = ? AND sku = ?`, tenantID, sku)
}

// List returns a tenant's items ordered by SKU.
func (s *inventoryStore) List(ctx context.Context, tenantID string) ([]domain.InventoryItem, error) {
	items, err := queryAll(ctx, s.store, scanInventoryItem,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE tenant_id = ? ORDER BY sku`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return items, nil
}

// Delete removes an item.
func (s *inventoryStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("inventory item", s.store.exec(ctx,
		`DELETE FROM inventory_items WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

func scanInventoryItem(row scanner) (*domain.InventoryItem, error) {
	var i domain.InventoryItem
	var createdAt, updatedAt string
	var expiresAt sql.NullString
	if err := row.Scan(&i.ID, &i.TenantID, &i.SKU, &i.Name, &i.Category, &i.Unit, &i.Quantity,
		&i.MinStock, &i.CostCents, &i.PriceCents, &i.Supplier, &i.Lot, &expiresAt,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning inventory item: %w", err)
	}
	var ts stamps
	i.ExpiresAt = ts.nullable("expires_at", expiresAt)
	i.CreatedAt = ts.at("created_at", createdAt)
	i.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning inventory item %s: %w", i.ID, ts.err)
	}
	return &i, nil
}
