package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// RouteStore persists delivery routes together with their stops.
type RouteStore interface {
	// Save stores or updates a route, replacing its stops.
	Save(ctx context.Context, route domain.DeliveryRoute) error

	Get(ctx context.Context, tenantID, id string) (*domain.DeliveryRoute, error)

	// List returns a tenant's routes ordered by weekday and name.
	List(ctx context.Context, tenantID string) ([]domain.DeliveryRoute, error)

	Delete(ctx context.Context, tenantID, id string) error
}
