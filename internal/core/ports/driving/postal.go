package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// PostalService looks up colonias by postal code.
type PostalService interface {
	// Lookup returns the colonias of a five-digit postal code.
	Lookup(ctx context.Context, code string) ([]domain.PostalCode, error)

	// Search matches colonia or municipality names ignoring case and accents.
	Search(ctx context.Context, query string, limit int) ([]domain.PostalCode, error)

	// Import loads a SEPOMEX pipe-delimited catalog and returns the number of entries stored.
	Import(ctx context.Context, r io.Reader) (int, error)
}
