package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// stubParser returns canned rows, optionally blocking until release is closed.
type stubParser struct {
	name    string
	rows    []domain.ImportRow
	rowErrs []domain.RowError
	err     error
	started chan struct{}
	release chan struct{}
}

func (p *stubParser) Name() string { return p.name }

func (p *stubParser) Parse(_ context.Context, _ string, _ []byte) ([]domain.ImportRow, []domain.RowError, error) {
	if p.started != nil {
		close(p.started)
		<-p.release
	}
	return p.rows, p.rowErrs, p.err
}

type stubRegistry map[string]driven.InventoryParser

func (r stubRegistry) Get(name string) (driven.InventoryParser, error) {
	p, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("parser %q: %w", name, domain.ErrUnsupportedType)
	}
	return p, nil
}

func (r stubRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func row(line int, sku, name string, qty float64) domain.ImportRow {
	return domain.ImportRow{
		Line:        line,
		Item:        domain.InventoryItem{SKU: sku, Name: name, Quantity: qty, Unit: "pz"},
		HasQuantity: true,
	}
}

func newInventoryService(e *testEnv, parsers ...*stubParser) *InventoryService {
	reg := stubRegistry{}
	for _, p := range parsers {
		reg[p.name] = p
	}
	svc := NewInventoryService(e.inventory, e.tenants, reg)
	svc.now = e.clock
	return svc
}

func TestDeriveSKU(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Vacuna Rabia 1ml", "VACUNA-RABIA-1ML"},
		{"  Croquetas   Premium (Adulto) ", "CROQUETAS-PREMIUM-ADULTO"},
		{"Jeringa 3 ml / caja", "JERINGA-3-ML-CAJA"},
		{"Año Nuevo", "ANO-NUEVO"},
		{"!!!", ""},
		{"Antiparasitario interno de amplio espectro", "ANTIPARASITARIO-INTERNO-DE-AMPLI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSKU(tt.name))
		})
	}
}

func TestInventoryService_ImportCreatesAndReports(t *testing.T) {
	e := newTestEnv(t)
	parser := &stubParser{
		name: "csv",
		rows: []domain.ImportRow{
			row(2, "vac-01", "Vacuna Rabia", 10),
			row(3, "", "Jeringa 3ml", 100),
			row(4, "BAD", "", 1),
			row(5, "NEG", "Negativo", -3),
			row(6, "VAC-01", "Vacuna Rabia 1ml", 12),
		},
		rowErrs: []domain.RowError{{Line: 7, Field: "quantity", Message: "not a number"}},
	}
	svc := newInventoryService(e, parser)

	report, err := svc.Import(e.ctx, driving.ImportRequest{
		TenantID: e.tenant.ID,
		Source:   "stock.csv",
		Blob:     []byte("ignored"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, "csv", report.Parser)
	assert.Equal(t, domain.ImportMerge, report.Mode)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 4, report.Skipped, "parser error, two invalid rows and one duplicate")
	assert.Equal(t, 2, report.Total())

	lines := make([]int, 0, len(report.Errors))
	for _, re := range report.Errors {
		lines = append(lines, re.Line)
	}
	assert.ElementsMatch(t, []int{7, 4, 5}, lines)

	items, err := svc.List(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	vac, err := e.inventory.GetBySKU(e.ctx, e.tenant.ID, "VAC-01")
	require.NoError(t, err)
	assert.Equal(t, "Vacuna Rabia 1ml", vac.Name, "last duplicate wins")
	assert.InDelta(t, 12, vac.Quantity, 0.001)

	_, err = e.inventory.GetBySKU(e.ctx, e.tenant.ID, "JERINGA-3ML")
	assert.NoError(t, err)
}

func TestInventoryService_ImportModes(t *testing.T) {
	seed := domain.InventoryItem{
		TenantID: "", SKU: "CROQ-01", Name: "Croquetas", Category: "Alimento",
		Unit: "kg", Quantity: 10, MinStock: 2, PriceCents: 50000, Supplier: "Purina",
	}

	tests := []struct {
		name         string
		mode         domain.ImportMode
		row          domain.ImportRow
		wantQty      float64
		wantSupplier string
		wantMin      float64
	}{
		{
			name:         "merge overwrites present fields",
			mode:         domain.ImportMerge,
			row:          row(2, "CROQ-01", "Croquetas Adulto", 4),
			wantQty:      4,
			wantSupplier: "Purina",
			wantMin:      2,
		},
		{
			name: "merge keeps quantity when absent",
			mode: domain.ImportMerge,
			row: domain.ImportRow{
				Line: 2,
				Item: domain.InventoryItem{SKU: "CROQ-01", Name: "Croquetas", Supplier: "Nupec"},
			},
			wantQty:      10,
			wantSupplier: "Nupec",
			wantMin:      2,
		},
		{
			name:         "add sums quantities",
			mode:         domain.ImportAdd,
			row:          row(2, "CROQ-01", "Croquetas", 5),
			wantQty:      15,
			wantSupplier: "Purina",
			wantMin:      2,
		},
		{
			name:         "replace overwrites everything",
			mode:         domain.ImportReplace,
			row:          row(2, "CROQ-01", "Croquetas", 7),
			wantQty:      7,
			wantSupplier: "",
			wantMin:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			svc := newInventoryService(e, &stubParser{name: "csv", rows: []domain.ImportRow{tt.row}})

			item := seed
			item.TenantID = e.tenant.ID
			created, err := svc.Create(e.ctx, item)
			require.NoError(t, err)

			report, err := svc.Import(e.ctx, driving.ImportRequest{
				TenantID: e.tenant.ID, Blob: []byte("x"), Mode: tt.mode,
			})
			require.NoError(t, err)
			assert.Equal(t, 1, report.Updated)

			got, err := svc.Get(e.ctx, e.tenant.ID, created.ID)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantQty, got.Quantity, 0.001)
			assert.Equal(t, tt.wantSupplier, got.Supplier)
			assert.InDelta(t, tt.wantMin, got.MinStock, 0.001)
			assert.Equal(t, created.CreatedAt, got.CreatedAt)
		})
	}
}

func TestInventoryService_ImportDryRunWritesNothing(t *testing.T) {
	e := newTestEnv(t)
	svc := newInventoryService(e, &stubParser{name: "csv", rows: []domain.ImportRow{row(2, "A", "Algo", 1)}})

	report, err := svc.Import(e.ctx, driving.ImportRequest{TenantID: e.tenant.ID, Blob: []byte("x"), DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Created)

	items, err := svc.List(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInventoryService_ImportErrors(t *testing.T) {
	e := newTestEnv(t)
	failing := &stubParser{name: "ai", err: domain.ErrLLMUnavailable}
	svc := newInventoryService(e, &stubParser{name: "csv"}, failing)

	tests := []struct {
		name    string
		req     driving.ImportRequest
		wantErr error
	}{
		{"no tenant", driving.ImportRequest{Blob: []byte("x")}, domain.ErrInvalidInput},
		{"empty blob", driving.ImportRequest{TenantID: e.tenant.ID}, domain.ErrInvalidInput},
		{"bad mode", driving.ImportRequest{TenantID: e.tenant.ID, Blob: []byte("x"), Mode: "upsert"}, domain.ErrInvalidInput},
		{"unknown parser", driving.ImportRequest{TenantID: e.tenant.ID, Blob: []byte("x"), Parser: "xlsx"}, domain.ErrUnsupportedType},
		{"unknown tenant", driving.ImportRequest{TenantID: "tn-none", Blob: []byte("x")}, domain.ErrNotFound},
		{"parser failure", driving.ImportRequest{TenantID: e.tenant.ID, Blob: []byte("x"), Parser: "ai"}, domain.ErrLLMUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(e.ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, []string{"ai", "csv"}, svc.Parsers())
}

func TestInventoryService_OneImportPerTenant(t *testing.T) {
	e := newTestEnv(t)
	slow := &stubParser{
		name:    "csv",
		rows:    []domain.ImportRow{row(2, "A", "Algo", 1)},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newInventoryService(e, slow)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Import(e.ctx, driving.ImportRequest{TenantID: e.tenant.ID, Blob: []byte("x")})
		done <- err
	}()
	<-slow.started

	_, err := svc.Import(e.ctx, driving.ImportRequest{TenantID: e.tenant.ID, Blob: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrImportInProgress)

	close(slow.release)
	require.NoError(t, <-done)

	slow.started, slow.release = nil, nil
	_, err = svc.Import(e.ctx, driving.ImportRequest{TenantID: e.tenant.ID, Blob: []byte("x")})
	assert.NoError(t, err, "the guard is released afterwards")
}

func TestInventoryService_CRUDAndStock(t *testing.T) {
	e := newTestEnv(t)
	svc := newInventoryService(e)

	item, err := svc.Create(e.ctx, domain.InventoryItem{
		TenantID: e.tenant.ID, Name: "Vacuna Rabia", Quantity: 3, MinStock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "VACUNA-RABIA", item.SKU)

	_, err = svc.Create(e.ctx, domain.InventoryItem{TenantID: e.tenant.ID, SKU: "vacuna-rabia", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.Create(e.ctx, domain.InventoryItem{TenantID: e.tenant.ID, Name: "Gasas", Quantity: 50, MinStock: 10})
	require.NoError(t, err)

	low, err := svc.LowStock(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "VACUNA-RABIA", low[0].SKU)

	adjusted, err := svc.Adjust(e.ctx, e.tenant.ID, " vacuna-rabia ", 10)
	require.NoError(t, err)
	assert.InDelta(t, 13, adjusted.Quantity, 0.001)

	adjusted, err = svc.Adjust(e.ctx, e.tenant.ID, "VACUNA-RABIA", -100)
	require.NoError(t, err)
	assert.Zero(t, adjusted.Quantity)

	_, err = svc.Adjust(e.ctx, e.tenant.ID, "NOPE", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item.Name = ""
	assert.ErrorIs(t, svc.Update(e.ctx, *item), domain.ErrInvalidInput)

	require.NoError(t, svc.Delete(e.ctx, e.tenant.ID, item.ID))
	assert.True(t, errors.Is(svc.Delete(e.ctx, e.tenant.ID, item.ID), domain.ErrNotFound))
}
