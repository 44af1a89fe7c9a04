package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

func newReceiptService(e *testEnv) *ReceiptService {
	svc := NewReceiptService(e.receipts, e.tenants)
	svc.now = e.clock
	return svc
}

func ticketTemplate(e *testEnv, name string) domain.ReceiptTemplate {
	return domain.ReceiptTemplate{
		TenantID:     e.tenant.ID,
		Name:         name,
		BusinessName: "Huellitas Roma",
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{45000, "$450.00"},
		{123450, "$1,234.50"},
		{100000000, "$1,000,000.00"},
		{-2550, "-$25.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.cents))
		})
	}
}

func TestReceiptService_DefaultTemplate(t *testing.T) {
	e := newTestEnv(t)
	svc := newReceiptService(e)

	ticket, err := svc.Create(e.ctx, ticketTemplate(e, "Ticket"))
	require.NoError(t, err)
	assert.True(t, ticket.IsDefault, "first template becomes the default")
	assert.Equal(t, domain.Paper80mm, ticket.PaperSize)

	letter := ticketTemplate(e, "Carta")
	letter.PaperSize = domain.PaperLetter
	carta, err := svc.Create(e.ctx, letter)
	require.NoError(t, err)
	assert.False(t, carta.IsDefault)

	require.NoError(t, svc.SetDefault(e.ctx, e.tenant.ID, carta.ID))
	assertSingleDefault(t, e, svc, carta.ID)

	// Update cannot move the default flag.
	ticket.IsDefault = true
	ticket.HeaderNote = "Gracias"
	require.NoError(t, svc.Update(e.ctx, *ticket))
	assertSingleDefault(t, e, svc, carta.ID)

	require.NoError(t, svc.Delete(e.ctx, e.tenant.ID, carta.ID))
	assertSingleDefault(t, e, svc, ticket.ID)

	require.NoError(t, svc.Delete(e.ctx, e.tenant.ID, ticket.ID))
	_, err = svc.Preview(e.ctx, e.tenant.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func assertSingleDefault(t *testing.T, e *testEnv, svc *ReceiptService, wantID string) {
	t.Helper()
	all, err := svc.List(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	var defaults []string
	for _, tmpl := range all {
		if tmpl.IsDefault {
			defaults = append(defaults, tmpl.ID)
		}
	}
	assert.Equal(t, []string{wantID}, defaults)
}

func TestReceiptService_TemplateValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := newReceiptService(e)

	tests := []struct {
		name   string
		modify func(*domain.ReceiptTemplate)
		field  string
	}{
		{"no business name", func(r *domain.ReceiptTemplate) { r.BusinessName = "" }, "business_name"},
		{"bad paper", func(r *domain.ReceiptTemplate) { r.PaperSize = "a4" }, "paper_size"},
		{"short colour", func(r *domain.ReceiptTemplate) { r.AccentColor = "#fff" }, "accent_color"},
		{"css injection", func(r *domain.ReceiptTemplate) { r.AccentColor = "red; background: url(x)" }, "accent_color"},
		{"plain http logo", func(r *domain.ReceiptTemplate) { r.LogoURL = "http://x.mx/logo.png" }, "logo_url"},
		{"data logo", func(r *domain.ReceiptTemplate) { r.LogoURL = "data:image/png;base64,AAAA" }, "logo_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := ticketTemplate(e, "Ticket")
			tt.modify(&tmpl)
			_, err := svc.Create(e.ctx, tmpl)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestReceiptService_Preview(t *testing.T) {
	e := newTestEnv(t)
	svc := newReceiptService(e)

	tmpl := ticketTemplate(e, "Ticket")
	tmpl.TaxID = "HUE010101AB1"
	tmpl.AccentColor = "#AA3300"
	tmpl.LogoURL = "https://huellitas.mx/logo.png"
	tmpl.ShowPetName = true
	tmpl.ShowTaxBreakdown = true
	tmpl.FooterMarkdown = "**Vuelva pronto** ~~hoy~~ https://huellitas.mx"
	_, err := svc.Create(e.ctx, tmpl)
	require.NoError(t, err)

	html, err := svc.Preview(e.ctx, e.tenant.ID, "")
	require.NoError(t, err)

	for _, want := range []string{
		"<h1>Huellitas Roma</h1>",
		"RFC HUE010101AB1",
		"width: 72mm",
		"color: #AA3300",
		`src="https://huellitas.mx/logo.png"`,
		"02/03/2026 08:00",
		"Firulais",
		"$366.00",
		"Subtotal", "$1,005.17",
		"IVA 16%", "$160.83",
		"$1,166.00",
		"Tarjeta de débito",
		"<strong>Vuelva pronto</strong>",
		"<del>hoy</del>",
		`<a href="https://huellitas.mx">https://huellitas.mx</a>`,
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "MVZ Sofía Ramírez", "staff name hidden by template")
}

func TestReceiptService_RenderEscapesContent(t *testing.T) {
	e := newTestEnv(t)
	svc := newReceiptService(e)

	tmpl := ticketTemplate(e, "Ticket")
	tmpl.BusinessName = "Huellitas <b>Roma</b>"
	tmpl.FooterMarkdown = "Hola <script>alert(1)</script>"
	created, err := svc.Create(e.ctx, tmpl)
	require.NoError(t, err)

	html, err := svc.Render(e.ctx, e.tenant.ID, created.ID, domain.Receipt{
		Folio:      "A-1",
		ClientName: `Juan "el <Güero>"`,
		Lines:      []domain.ReceiptLine{{Description: "Baño & corte", Quantity: 1, UnitCents: 30000}},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Huellitas &lt;b&gt;Roma&lt;/b&gt;")
	assert.Contains(t, html, "Baño &amp; corte")
	assert.NotContains(t, html, "<Güero>")
	assert.NotContains(t, html, "<script>alert")
	assert.NotContains(t, html, "Subtotal", "tax breakdown off")
	assert.Contains(t, html, "$300.00")
}

func TestReceiptService_RenderValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := newReceiptService(e)
	created, err := svc.Create(e.ctx, ticketTemplate(e, "Ticket"))
	require.NoError(t, err)

	line := domain.ReceiptLine{Description: "Consulta", Quantity: 1, UnitCents: 45000}
	tests := []struct {
		name    string
		receipt domain.Receipt
	}{
		{"no lines", domain.Receipt{}},
		{"zero quantity", domain.Receipt{Lines: []domain.ReceiptLine{{Description: "X", Quantity: 0, UnitCents: 1}}}},
		{"negative price", domain.Receipt{Lines: []domain.ReceiptLine{{Description: "X", Quantity: 1, UnitCents: -1}}}},
		{"blank description", domain.Receipt{Lines: []domain.ReceiptLine{{Description: " ", Quantity: 1}}}},
		{"tax over 100%", domain.Receipt{Lines: []domain.ReceiptLine{line}, TaxBasisPoints: 10001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Render(e.ctx, e.tenant.ID, created.ID, tt.receipt)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err = svc.Render(e.ctx, e.tenant.ID, "missing", domain.Receipt{Lines: []domain.ReceiptLine{line}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
