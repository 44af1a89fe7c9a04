package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ensure RouteService implements the interface.
var _ driving.RouteService = (*RouteService)(nil)

// RouteService manages weekly delivery routes.
type RouteService struct {
	routes  driven.RouteStore
	staff   driven.StaffStore
	clients driven.ClientStore
	now     func() time.Time
}

// NewRouteService creates a new route service.
func NewRouteService(routes driven.RouteStore, staff driven.StaffStore, clients driven.ClientStore) *RouteService {
	return &RouteService{routes: routes, staff: staff, clients: clients, now: time.Now}
}

// Create stores a route. Route names are unique within a tenant.
func (s *RouteService) Create(ctx context.Context, route domain.DeliveryRoute) (*domain.DeliveryRoute, error) {
	if s.routes == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.validate(ctx, &route); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, route.TenantID, route.Name, ""); err != nil {
		return nil, err
	}
	if route.ID == "" {
		route.ID = newID()
	}
	route.CreatedAt = s.now().UTC()
	route.UpdatedAt = route.CreatedAt
	if err := s.routes.Save(ctx, route); err != nil {
		return nil, fmt.Errorf("saving route: %w", err)
	}
	return &route, nil
}

// Get retrieves a route.
func (s *RouteService) Get(ctx context.Context, tenantID, id string) (*domain.DeliveryRoute, error) {
	if s.routes == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.routes.Get(ctx, tenantID, id)
}

// List returns a tenant's routes.
func (s *RouteService) List(ctx context.Context, tenantID string) ([]domain.DeliveryRoute, error) {
	if s.routes == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.routes.List(ctx, tenantID)
}

// Update replaces a route and its stops.
func (s *RouteService) Update(ctx context.Context, route domain.DeliveryRoute) error {
	if s.routes == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.routes.Get(ctx, route.TenantID, route.ID)
	if err != nil {
		return err
	}
	if err := s.validate(ctx, &route); err != nil {
		return err
	}
	if err := s.checkName(ctx, route.TenantID, route.Name, route.ID); err != nil {
		return err
	}
	route.CreatedAt = existing.CreatedAt
	route.UpdatedAt = s.now().UTC()
	return s.routes.Save(ctx, route)
}

// Delete removes a route.
func (s *RouteService) Delete(ctx context.Context, tenantID, id string) error {
	if s.routes == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.routes.Get(ctx, tenantID, id); err != nil {
		return err
	}
	return s.routes.Delete(ctx, tenantID, id)
}

// Reorder sets the stop order. clientIDs must list every stop exactly once.
func (s *RouteService) Reorder(
	ctx context.Context,
	tenantID, id string,
	clientIDs []string,
) (*domain.DeliveryRoute, error) {
	if s.routes == nil {
		return nil, domain.ErrNotImplemented
	}
	route, err := s.routes.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(clientIDs) != len(route.Stops) {
		return nil, domain.Invalid("stops", "expected %d stops, got %d", len(route.Stops), len(clientIDs))
	}
	byClient := make(map[string]domain.RouteStop, len(route.Stops))
	for _, stop := range route.Stops {
		byClient[stop.ClientID] = stop
	}
	stops := make([]domain.RouteStop, 0, len(clientIDs))
	for i, clientID := range clientIDs {
		stop, ok := byClient[clientID]
		if !ok {
			return nil, domain.Invalid("stops", "client %s is not on this route or is listed twice", clientID)
		}
		delete(byClient, clientID)
		stop.Sequence = i + 1
		stops = append(stops, stop)
	}
	route.Stops = stops
	route.UpdatedAt = s.now().UTC()
	if err := s.routes.Save(ctx, *route); err != nil {
		return nil, fmt.Errorf("saving route: %w", err)
	}
	return route, nil
}

// ForDay returns the routes that run on weekday.
func (s *RouteService) ForDay(ctx context.Context, tenantID string, weekday time.Weekday) ([]domain.DeliveryRoute, error) {
	all, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []domain.DeliveryRoute
	for i := range all {
		if all[i].Weekday == weekday {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *RouteService) checkName(ctx context.Context, tenantID, name, selfID string) error {
	all, err := s.routes.List(ctx, tenantID)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID != selfID && strings.EqualFold(all[i].Name, name) {
			return fmt.Errorf("route %q: %w", name, domain.ErrAlreadyExists)
		}
	}
	return nil
}

// validate checks the driver and stops, filling stop addresses from the
// client record and numbering stops in order.
func (s *RouteService) validate(ctx context.Context, route *domain.DeliveryRoute) error {
	route.Name = strings.TrimSpace(route.Name)
	if err := required("tenant_id", route.TenantID); err != nil {
		return err
	}
	if err := required("name", route.Name); err != nil {
		return err
	}
	if route.Weekday < time.Sunday || route.Weekday > time.Saturday {
		return domain.Invalid("weekday", "must be 0-6, got %d", route.Weekday)
	}
	if route.DriverID != "" && s.staff != nil {
		driver, err := s.staff.Get(ctx, route.TenantID, route.DriverID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.Invalid("driver_id", "staff %s does not exist", route.DriverID)
		case err != nil:
			return err
		case !driver.Active || driver.Role != domain.RoleDriver:
			return domain.Invalid("driver_id", "%s is not an active driver", driver.Name)
		}
	}

	seen := make(map[string]bool, len(route.Stops))
	for i := range route.Stops {
		stop := &route.Stops[i]
		field := fmt.Sprintf("stops[%d]", i)
		if stop.ClientID == "" {
			return domain.Invalid(field, "client_id is required")
		}
		if seen[stop.ClientID] {
			return domain.Invalid(field, "client %s appears twice", stop.ClientID)
		}
		seen[stop.ClientID] = true
		if s.clients != nil {
			client, err := s.clients.Get(ctx, route.TenantID, stop.ClientID)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid(field, "client %s does not exist", stop.ClientID)
			} else if err != nil {
				return err
			}
			if stop.Address.IsZero() {
				stop.Address = client.Address
			}
		}
		if stop.Address.IsZero() {
			return domain.Invalid(field, "an address is required")
		}
		if stop.HasWindow() {
			if stop.WindowStart < 0 || stop.WindowEnd > domain.MinutesPerDay || stop.WindowStart >= stop.WindowEnd {
				return domain.Invalid(field, "delivery window %s-%s is not a valid range",
					domain.FormatClock(stop.WindowStart), domain.FormatClock(stop.WindowEnd))
			}
		}
		stop.Sequence = i + 1
	}
	return nil
}
