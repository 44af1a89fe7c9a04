package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// ReceiptStore persists receipt templates.
type ReceiptStore interface {
	Save(ctx context.Context, tmpl domain.ReceiptTemplate) error
	Get(ctx context.Context, tenantID, id string) (*domain.ReceiptTemplate, error)

	// List returns a tenant's templates ordered by name.
	List(ctx context.Context, tenantID string) ([]domain.ReceiptTemplate, error)

	Delete(ctx context.Context, tenantID, id string) error
}
