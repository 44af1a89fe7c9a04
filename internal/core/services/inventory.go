package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/segmentio/ksuid"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Ensure InventoryService implements the interface.
var _ driving.InventoryService = (*InventoryService)(nil)

const (
	defaultParser = "csv"
	maxSKULength  = 32
)

// InventoryService manages stock items and imports uploads through
// pluggable parsers.
type InventoryService struct {
	items   driven.InventoryStore
	tenants driven.TenantStore
	parsers driven.ParserRegistry
	now     func() time.Time

	// importing holds tenant IDs with an import in flight.
	importing sync.Map
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	items driven.InventoryStore,
	tenants driven.TenantStore,
	parsers driven.ParserRegistry,
) *InventoryService {
	return &InventoryService{items: items, tenants: tenants, parsers: parsers, now: time.Now}
}

// Parsers lists the registered parser names.
func (s *InventoryService) Parsers() []string {
	if s.parsers == nil {
		return nil
	}
	return s.parsers.Names()
}

// Import parses an upload and applies it to the tenant's stock.
// Only one import per tenant may run at a time.
func (s *InventoryService) Import(ctx context.Context, req driving.ImportRequest) (*domain.ImportReport, error) {
	if s.items == nil || s.parsers == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := required("tenant_id", req.TenantID); err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = domain.ImportMerge
	}
	if !req.Mode.IsValid() {
		return nil, domain.Invalid("mode", "unknown import mode %q", req.Mode)
	}
	if len(req.Blob) == 0 {
		return nil, domain.Invalid("file", "is empty")
	}
	if req.Parser == "" {
		req.Parser = defaultParser
	}
	parser, err := s.parsers.Get(req.Parser)
	if err != nil {
		return nil, err
	}
	if s.tenants != nil {
		if _, err := s.tenants.Get(ctx, req.TenantID); err != nil {
			return nil, fmt.Errorf("tenant %q: %w", req.TenantID, err)
		}
	}

	if _, busy := s.importing.LoadOrStore(req.TenantID, struct{}{}); busy {
		return nil, domain.ErrImportInProgress
	}
	defer s.importing.Delete(req.TenantID)

	report := &domain.ImportReport{
		BatchID:   ksuid.New().String(),
		TenantID:  req.TenantID,
		Parser:    parser.Name(),
		Source:    req.Source,
		Mode:      req.Mode,
		DryRun:    req.DryRun,
		StartedAt: s.now().UTC(),
	}
	logger.Section("Inventory import " + report.BatchID)
	logger.Info("tenant=%s parser=%s source=%q mode=%s dry_run=%t",
		req.TenantID, report.Parser, req.Source, req.Mode, req.DryRun)

	rows, rowErrs, err := parser.Parse(ctx, req.Source, req.Blob)
	if err != nil {
		return nil, fmt.Errorf("parsing %s with %s: %w", req.Source, parser.Name(), err)
	}
	report.Errors = append(report.Errors, rowErrs...)
	report.Skipped += len(rowErrs)

	rows = s.validRows(rows, report)

	existing, err := s.items.List(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	bySKU := make(map[string]*domain.InventoryItem, len(existing))
	for i := range existing {
		bySKU[existing[i].SKU] = &existing[i]
	}

	now := s.now().UTC()
	batch := make([]domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item := row.Item
		item.TenantID = req.TenantID
		current, ok := bySKU[item.SKU]
		if !ok {
			item.ID = newID()
			item.CreatedAt = now
			item.UpdatedAt = now
			batch = append(batch, item)
			report.Created++
			continue
		}
		batch = append(batch, applyRow(*current, row, req.Mode, now))
		report.Updated++
	}

	if !req.DryRun && len(batch) > 0 {
		if err := s.items.SaveBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("saving inventory: %w", err)
		}
	}
	report.EndedAt = s.now().UTC()
	logger.Info("import %s: created=%d updated=%d skipped=%d errors=%d",
		report.BatchID, report.Created, report.Updated, report.Skipped, len(report.Errors))
	return report, nil
}

// validRows normalises rows, records invalid ones and keeps the last
// row for each SKU.
func (s *InventoryService) validRows(rows []domain.ImportRow, report *domain.ImportReport) []domain.ImportRow {
	index := make(map[string]int, len(rows))
	out := make([]domain.ImportRow, 0, len(rows))
	for _, row := range rows {
		if err := normaliseItem(&row.Item); err != nil {
			report.Errors = append(report.Errors, rowError(row.Line, err))
			report.Skipped++
			continue
		}
		if i, dup := index[row.Item.SKU]; dup {
			out[i] = row
			report.Skipped++
			continue
		}
		index[row.Item.SKU] = len(out)
		out = append(out, row)
	}
	return out
}

// applyRow combines a stored item with an imported row.
func applyRow(current domain.InventoryItem, row domain.ImportRow, mode domain.ImportMode, now time.Time) domain.InventoryItem {
	in := row.Item
	if mode == domain.ImportReplace {
		in.ID = current.ID
		in.TenantID = current.TenantID
		in.CreatedAt = current.CreatedAt
		in.UpdatedAt = now
		return in
	}

	out := current
	setString(&out.Name, in.Name)
	setString(&out.Category, in.Category)
	setString(&out.Unit, in.Unit)
	setString(&out.Supplier, in.Supplier)
	setString(&out.Lot, in.Lot)
	if !in.ExpiresAt.IsZero() {
		out.ExpiresAt = in.ExpiresAt
	}
	if in.MinStock > 0 {
		out.MinStock = in.MinStock
	}
	if in.CostCents > 0 {
		out.CostCents = in.CostCents
	}
	if in.PriceCents > 0 {
		out.PriceCents = in.PriceCents
	}
	if row.HasQuantity {
		if mode == domain.ImportAdd {
			out.Quantity += in.Quantity
		} else {
			out.Quantity = in.Quantity
		}
	}
	out.UpdatedAt = now
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func rowError(line int, err error) domain.RowError {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return domain.RowError{Line: line, Field: ve.Field, Message: ve.Message}
	}
	return domain.RowError{Line: line, Message: err.Error()}
}

// normaliseItem trims fields, derives a missing SKU and validates amounts.
func normaliseItem(item *domain.InventoryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	item.Unit = strings.ToLower(strings.TrimSpace(item.Unit))
	item.SKU = strings.ToUpper(strings.TrimSpace(item.SKU))
	if item.Name == "" {
		return domain.Invalid("name", "is required")
	}
	if item.SKU == "" {
		item.SKU = DeriveSKU(item.Name)
	}
	if item.SKU == "" {
		return domain.Invalid("sku", "cannot be derived from %q", item.Name)
	}
	if len(item.SKU) > maxSKULength {
		return domain.Invalid("sku", "longer than %d characters", maxSKULength)
	}
	if item.Quantity < 0 {
		return domain.Invalid("quantity", "must not be negative")
	}
	if item.MinStock < 0 {
		return domain.Invalid("min_stock", "must not be negative")
	}
	if item.CostCents < 0 {
		return domain.Invalid("cost", "must not be negative")
	}
	if item.PriceCents < 0 {
		return domain.Invalid("price", "must not be negative")
	}
	return nil
}

// DeriveSKU builds an upper-case slug from a product name,
// so "Vacuna Rabia 1ml" becomes "VACUNA-RABIA-1ML".
func DeriveSKU(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range fold(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(unicode.ToUpper(r))
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	sku := strings.TrimSuffix(b.String(), "-")
	if len(sku) > maxSKULength {
		sku = strings.TrimSuffix(sku[:maxSKULength], "-")
	}
	return sku
}

// Create stores a new item. The SKU must be unused within the tenant.
func (s *InventoryService) Create(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if s.items == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := required("tenant_id", item.TenantID); err != nil {
		return nil, err
	}
	if err := normaliseItem(&item); err != nil {
		return nil, err
	}
	if _, err := s.items.GetBySKU(ctx, item.TenantID, item.SKU); err == nil {
		return nil, fmt.Errorf("sku %s: %w", item.SKU, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if item.ID == "" {
		item.ID = newID()
	}
	item.CreatedAt = s.now().UTC()
	item.UpdatedAt = item.CreatedAt
	if err := s.items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return &item, nil
}

// Get retrieves an item.
func (s *InventoryService) Get(ctx context.Context, tenantID, id string) (*domain.InventoryItem, error) {
	if s.items == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.items.Get(ctx, tenantID, id)
}

// List returns a tenant's items.
func (s *InventoryService) List(ctx context.Context, tenantID string) ([]domain.InventoryItem, error) {
	if s.items == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.items.List(ctx, tenantID)
}

// Update modifies an item.
func (s *InventoryService) Update(ctx context.Context, item domain.InventoryItem) error {
	if s.items == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.items.Get(ctx, item.TenantID, item.ID)
	if err != nil {
		return err
	}
	if err := normaliseItem(&item); err != nil {
		return err
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = s.now().UTC()
	return s.items.Save(ctx, item)
}

// Delete removes an item.
func (s *InventoryService) Delete(ctx context.Context, tenantID, id string) error {
	if s.items == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.items.Get(ctx, tenantID, id); err != nil {
		return err
	}
	return s.items.Delete(ctx, tenantID, id)
}

// LowStock returns items at or below their minimum stock.
func (s *InventoryService) LowStock(ctx context.Context, tenantID string) ([]domain.InventoryItem, error) {
	all, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var low []domain.InventoryItem
	for i := range all {
		if all[i].IsLowStock() {
			low = append(low, all[i])
		}
	}
	return low, nil
}

// Adjust adds delta to an item's quantity, clamping at zero.
func (s *InventoryService) Adjust(ctx context.Context, tenantID, sku string, delta float64) (*domain.InventoryItem, error) {
	if s.items == nil {
		return nil, domain.ErrNotImplemented
	}
	item, err := s.items.GetBySKU(ctx, tenantID, strings.ToUpper(strings.TrimSpace(sku)))
	if err != nil {
		return nil, err
	}
	item.Quantity += delta
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	item.UpdatedAt = s.now().UTC()
	if err := s.items.Save(ctx, *item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return item, nil
}
