package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// InventoryParser turns an uploaded blob into inventory rows.
// Rows that cannot be parsed are reported as row errors rather than failing the blob.
type InventoryParser interface {
	// Name returns the parser name used for selection and reports.
	Name() string

	// Parse reads blob, named for diagnostics, into rows.
	Parse(ctx context.Context, name string, blob []byte) ([]domain.ImportRow, []domain.RowError, error)
}

// ParserRegistry selects a parser by name.
type ParserRegistry interface {
	// Get returns the named parser or an error wrapping domain.ErrUnsupportedType.
	Get(name string) (InventoryParser, error)

	// Names returns the registered parser names in sorted order.
	Names() []string
}
