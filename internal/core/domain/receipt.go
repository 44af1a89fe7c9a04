package domain

import "time"

// PaperSize is the receipt printer format.
type PaperSize string

// Paper sizes.
const (
	Paper58mm   PaperSize = "58mm"
	Paper80mm   PaperSize = "80mm"
	PaperLetter PaperSize = "letter"
)

// IsValid returns true if the paper size is recognised.
func (p PaperSize) IsValid() bool {
	switch p {
	case Paper58mm, Paper80mm, PaperLetter:
		return true
	default:
		return false
	}
}

// WidthCSS returns the printable width as a CSS length.
func (p PaperSize) WidthCSS() string {
	switch p {
	case Paper58mm:
		return "48mm"
	case Paper80mm:
		return "72mm"
	default:
		return "190mm"
	}
}

// ReceiptTemplate describes how a tenant's receipts look.
type ReceiptTemplate struct {
	ID           string
	TenantID     string
	Name         string
	PaperSize    PaperSize
	BusinessName string
	LogoURL      string
	Address      string
	Phone        string

	// TaxID is the RFC printed on the receipt.
	TaxID string

	HeaderNote string

	// FooterMarkdown is rendered to HTML below the totals.
	FooterMarkdown string

	// AccentColor is a #RRGGBB hex colour.
	AccentColor string

	ShowPetName      bool
	ShowStaffName    bool
	ShowTaxBreakdown bool
	IsDefault        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReceiptLine is one charged item.
type ReceiptLine struct {
	Description string
	Quantity    int
	UnitCents   int64
}

// TotalCents returns quantity times unit price.
func (l ReceiptLine) TotalCents() int64 {
	return int64(l.Quantity) * l.UnitCents
}

// Receipt is the data rendered into a template.
// Prices include tax; Tax reports the included portion.
type Receipt struct {
	Folio      string
	IssuedAt   time.Time
	ClientName string
	PetName    string
	StaffName  string
	Lines      []ReceiptLine

	// TaxBasisPoints is the tax rate, 1600 for 16% IVA.
	TaxBasisPoints int

	PaymentMethod string
}

// Total returns the sum of all lines.
func (r *Receipt) Total() int64 {
	var total int64
	for _, l := range r.Lines {
		total += l.TotalCents()
	}
	return total
}

// Tax returns the tax included in Total, rounded to the nearest cent.
func (r *Receipt) Tax() int64 {
	if r.TaxBasisPoints <= 0 {
		return 0
	}
	total := r.Total()
	bp := int64(r.TaxBasisPoints)
	return (total*bp + (10000+bp)/2) / (10000 + bp)
}

// Subtotal returns Total minus Tax.
func (r *Receipt) Subtotal() int64 {
	return r.Total() - r.Tax()
}
