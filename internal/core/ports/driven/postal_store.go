package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// PostalCodeStore persists the postal code catalog. It is shared by all tenants.
type PostalCodeStore interface {
	// SaveBatch stores entries, replacing any with the same code and colonia.
	SaveBatch(ctx context.Context, entries []domain.PostalCode) error

	// ListByCode returns the colonias of a postal code ordered by name.
	ListByCode(ctx context.Context, code string) ([]domain.PostalCode, error)

	// Search returns entries whose SearchKey contains key, up to limit.
	Search(ctx context.Context, key string, limit int) ([]domain.PostalCode, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
