package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ensure ReceiptService implements the interface.
var _ driving.ReceiptService = (*ReceiptService)(nil)

//go:embed templates/receipt.html.tmpl
var receiptFS embed.FS

var (
	receiptTmpl = template.Must(template.ParseFS(receiptFS, "templates/receipt.html.tmpl"))
	hexColour   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	footerMD    = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
)

const defaultAccent = "#1f6feb"

// ReceiptService manages receipt templates and renders receipts to HTML.
type ReceiptService struct {
	templates driven.ReceiptStore
	tenants   driven.TenantStore
	now       func() time.Time
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(templates driven.ReceiptStore, tenants driven.TenantStore) *ReceiptService {
	return &ReceiptService{templates: templates, tenants: tenants, now: time.Now}
}

// Create stores a template. A tenant's first template becomes its default.
func (s *ReceiptService) Create(ctx context.Context, tmpl domain.ReceiptTemplate) (*domain.ReceiptTemplate, error) {
	if s.templates == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateTemplate(&tmpl); err != nil {
		return nil, err
	}
	existing, err := s.templates.List(ctx, tmpl.TenantID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		tmpl.IsDefault = true
	}
	if tmpl.ID == "" {
		tmpl.ID = newID()
	}
	tmpl.CreatedAt = s.now().UTC()
	tmpl.UpdatedAt = tmpl.CreatedAt
	if tmpl.IsDefault {
		if err := s.clearDefault(ctx, existing, tmpl.ID); err != nil {
			return nil, err
		}
	}
	if err := s.templates.Save(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("saving template: %w", err)
	}
	return &tmpl, nil
}

// Get retrieves a template.
func (s *ReceiptService) Get(ctx context.Context, tenantID, id string) (*domain.ReceiptTemplate, error) {
	if s.templates == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.templates.Get(ctx, tenantID, id)
}

// List returns a tenant's templates.
func (s *ReceiptService) List(ctx context.Context, tenantID string) ([]domain.ReceiptTemplate, error) {
	if s.templates == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.templates.List(ctx, tenantID)
}

// Update modifies a template. The default flag only changes through SetDefault.
func (s *ReceiptService) Update(ctx context.Context, tmpl domain.ReceiptTemplate) error {
	if s.templates == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.templates.Get(ctx, tmpl.TenantID, tmpl.ID)
	if err != nil {
		return err
	}
	if err := validateTemplate(&tmpl); err != nil {
		return err
	}
	tmpl.IsDefault = existing.IsDefault
	tmpl.CreatedAt = existing.CreatedAt
	tmpl.UpdatedAt = s.now().UTC()
	return s.templates.Save(ctx, tmpl)
}

// Delete removes a template. Deleting the default promotes the first remaining template.
func (s *ReceiptService) Delete(ctx context.Context, tenantID, id string) error {
	if s.templates == nil {
		return domain.ErrNotImplemented
	}
	tmpl, err := s.templates.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if !tmpl.IsDefault {
		return nil
	}
	rest, err := s.templates.List(ctx, tenantID)
	if err != nil || len(rest) == 0 {
		return err
	}
	rest[0].IsDefault = true
	rest[0].UpdatedAt = s.now().UTC()
	return s.templates.Save(ctx, rest[0])
}

// SetDefault makes id the tenant's only default template.
func (s *ReceiptService) SetDefault(ctx context.Context, tenantID, id string) error {
	if s.templates == nil {
		return domain.ErrNotImplemented
	}
	tmpl, err := s.templates.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	all, err := s.templates.List(ctx, tenantID)
	if err != nil {
		return err
	}
	if err := s.clearDefault(ctx, all, id); err != nil {
		return err
	}
	if tmpl.IsDefault {
		return nil
	}
	tmpl.IsDefault = true
	tmpl.UpdatedAt = s.now().UTC()
	return s.templates.Save(ctx, *tmpl)
}

func (s *ReceiptService) clearDefault(ctx context.Context, all []domain.ReceiptTemplate, keepID string) error {
	for i := range all {
		if all[i].IsDefault && all[i].ID != keepID {
			all[i].IsDefault = false
			all[i].UpdatedAt = s.now().UTC()
			if err := s.templates.Save(ctx, all[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Render produces a standalone HTML receipt.
func (s *ReceiptService) Render(
	ctx context.Context,
	tenantID, templateID string,
	receipt domain.Receipt,
) (string, error) {
	if s.templates == nil {
		return "", domain.ErrNotImplemented
	}
	tmpl, err := s.resolve(ctx, tenantID, templateID)
	if err != nil {
		return "", err
	}
	if err := validateReceipt(&receipt); err != nil {
		return "", err
	}
	loc := time.UTC
	if s.tenants != nil {
		if tenant, err := s.tenants.Get(ctx, tenantID); err == nil {
			if l, err := tenant.Location(); err == nil {
				loc = l
			}
		}
	}
	if receipt.IssuedAt.IsZero() {
		receipt.IssuedAt = s.now()
	}
	return renderReceipt(tmpl, &receipt, loc)
}

// Preview renders the template with a sample receipt.
func (s *ReceiptService) Preview(ctx context.Context, tenantID, templateID string) (string, error) {
	return s.Render(ctx, tenantID, templateID, SampleReceipt(s.now()))
}

func (s *ReceiptService) resolve(ctx context.Context, tenantID, templateID string) (*domain.ReceiptTemplate, error) {
	if templateID != "" {
		return s.templates.Get(ctx, tenantID, templateID)
	}
	all, err := s.templates.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].IsDefault {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("no default receipt template: %w", domain.ErrNotFound)
}

// SampleReceipt returns the data used for template previews.
func SampleReceipt(at time.Time) domain.Receipt {
	return domain.Receipt{
		Folio:      "MUESTRA-0001",
		IssuedAt:   at,
		ClientName: "Ana López Hernández",
		PetName:    "Firulais",
		StaffName:  "MVZ Sofía Ramírez",
		Lines: []domain.ReceiptLine{
			{Description: "Consulta general", Quantity: 1, UnitCents: 45000},
			{Description: "Vacuna antirrábica", Quantity: 1, UnitCents: 35000},
			{Description: "Shampoo medicado", Quantity: 2, UnitCents: 18300},
		},
		TaxBasisPoints: 1600,
		PaymentMethod:  "Tarjeta de débito",
	}
}

type receiptLineView struct {
	Quantity    int
	Description string
	Total       string
}

type receiptView struct {
	Template *domain.ReceiptTemplate
	Receipt  *domain.Receipt
	Width    template.CSS
	Accent   template.CSS
	Issued   string
	Lines    []receiptLineView
	Subtotal string
	Tax      string
	TaxRate  string
	Total    string
	Footer   template.HTML
}

func renderReceipt(tmpl *domain.ReceiptTemplate, r *domain.Receipt, loc *time.Location) (string, error) {
	accent := tmpl.AccentColor
	if accent == "" {
		accent = defaultAccent
	}
	view := receiptView{
		Template: tmpl,
		Receipt:  r,
		Width:    template.CSS(tmpl.PaperSize.WidthCSS()),
		Accent:   template.CSS(accent),
		Issued:   r.IssuedAt.In(loc).Format("02/01/2006 15:04"),
		Subtotal: FormatMoney(r.Subtotal()),
		Tax:      FormatMoney(r.Tax()),
		TaxRate:  formatRate(r.TaxBasisPoints),
		Total:    FormatMoney(r.Total()),
	}
	for _, l := range r.Lines {
		view.Lines = append(view.Lines, receiptLineView{
			Quantity:    l.Quantity,
			Description: l.Description,
			Total:       FormatMoney(l.TotalCents()),
		})
	}
	if strings.TrimSpace(tmpl.FooterMarkdown) != "" {
		var buf bytes.Buffer
		if err := footerMD.Convert([]byte(tmpl.FooterMarkdown), &buf); err != nil {
			return "", fmt.Errorf("rendering footer: %w", err)
		}
		// goldmark drops raw HTML unless configured otherwise.
		view.Footer = template.HTML(buf.String()) //nolint:gosec // sanitised by goldmark
	}

	var out bytes.Buffer
	if err := receiptTmpl.Execute(&out, view); err != nil {
		return "", fmt.Errorf("rendering receipt: %w", err)
	}
	return out.String(), nil
}

// FormatMoney formats cents as pesos, for example "$1,234.50".
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}

func formatRate(bp int) string {
	if bp%100 == 0 {
		return fmt.Sprintf("%d%%", bp/100)
	}
	return strconv.FormatFloat(float64(bp)/100, 'f', -1, 64) + "%"
}

func validateTemplate(t *domain.ReceiptTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	t.BusinessName = strings.TrimSpace(t.BusinessName)
	if err := required("tenant_id", t.TenantID); err != nil {
		return err
	}
	if err := required("name", t.Name); err != nil {
		return err
	}
	if err := required("business_name", t.BusinessName); err != nil {
		return err
	}
	if t.PaperSize == "" {
		t.PaperSize = domain.Paper80mm
	}
	if !t.PaperSize.IsValid() {
		return domain.Invalid("paper_size", "unknown paper size %q", t.PaperSize)
	}
	if t.AccentColor != "" && !hexColour.MatchString(t.AccentColor) {
		return domain.Invalid("accent_color", "%q is not a #RRGGBB colour", t.AccentColor)
	}
	if t.LogoURL != "" && !strings.HasPrefix(t.LogoURL, "https://") {
		return domain.Invalid("logo_url", "must be an https URL")
	}
	return nil
}

func validateReceipt(r *domain.Receipt) error {
	if len(r.Lines) == 0 {
		return domain.Invalid("lines", "a receipt needs at least one line")
	}
	for i, l := range r.Lines {
		if strings.TrimSpace(l.Description) == "" {
			return domain.Invalid("lines", "line %d has no description", i+1)
		}
		if l.Quantity <= 0 {
			return domain.Invalid("lines", "line %d quantity must be positive", i+1)
		}
		if l.UnitCents < 0 {
			return domain.Invalid("lines", "line %d price must not be negative", i+1)
		}
	}
	if r.TaxBasisPoints < 0 || r.TaxBasisPoints > 10000 {
		return domain.Invalid("tax_rate", "must be between 0 and 100%%")
	}
	return nil
}
