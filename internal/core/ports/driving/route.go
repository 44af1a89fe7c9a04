package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// RouteService manages delivery routes.
type RouteService interface {
	Create(ctx context.Context, route domain.DeliveryRoute) (*domain.DeliveryRoute, error)
	Get(ctx context.Context, tenantID, id string) (*domain.DeliveryRoute, error)
	List(ctx context.Context, tenantID string) ([]domain.DeliveryRoute, error)
	Update(ctx context.Context, route domain.DeliveryRoute) error
	Delete(ctx context.Context, tenantID, id string) error

	// Reorder sets the stop order to match clientIDs.
	Reorder(ctx context.Context, tenantID, id string, clientIDs []string) (*domain.DeliveryRoute, error)

	// ForDay returns the routes that run on weekday.
	ForDay(ctx context.Context, tenantID string, weekday time.Weekday) ([]domain.DeliveryRoute, error)
}
