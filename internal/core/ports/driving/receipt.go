package driving

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// ReceiptService manages receipt templates and renders receipts.
type ReceiptService interface {
	// Create stores a template. The first template of a tenant becomes its default.
	Create(ctx context.Context, tmpl domain.ReceiptTemplate) (*domain.ReceiptTemplate, error)

	Get(ctx context.Context, tenantID, id string) (*domain.ReceiptTemplate, error)
	List(ctx context.Context, tenantID string) ([]domain.ReceiptTemplate, error)
	Update(ctx context.Context, tmpl domain.ReceiptTemplate) error
	Delete(ctx context.Context, tenantID, id string) error

	// SetDefault makes the template the tenant's default, clearing the previous one.
	SetDefault(ctx context.Context, tenantID, id string) error

	// Render produces a standalone HTML document. An empty templateID uses the default.
	Render(ctx context.Context, tenantID, templateID string, receipt domain.Receipt) (string, error)

	// Preview renders the template with sample data.
	Preview(ctx context.Context, tenantID, templateID string) (string, error)
}
