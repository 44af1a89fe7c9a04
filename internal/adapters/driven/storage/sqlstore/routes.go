package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// routeStore implements driven.RouteStore. Stops live in their own table
// and are replaced wholesale on every save.
type routeStore struct {
	store *Store
}

var _ driven.RouteStore = (*routeStore)(nil)

const routeColumns = `id, tenant_id, name, weekday, driver_id, notes, created_at, updated_at`

// Save stores or updates a route and its stops.
func (s *routeStore) Save(ctx context.Context, r domain.DeliveryRoute) error {
	rebind := s.store.dialect.rebind
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, rebind(`
			INSERT INTO delivery_routes (`+routeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				weekday = excluded.weekday,
				driver_id = excluded.driver_id,
				notes = excluded.notes,
				updated_at = excluded.updated_at
		`), r.ID, r.TenantID, r.Name, int(r.Weekday), r.DriverID, r.Notes,
			formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, rebind(`DELETE FROM route_stops WHERE route_id = ?`), r.ID); err != nil {
			return err
		}
		for _, stop := range r.Stops {
			address, err := encodeJSON(stop.Address)
			if err != nil {
				return fmt.Errorf("encoding stop address: %w", err)
			}
			_, err = tx.ExecContext(ctx, rebind(`
				INSERT INTO route_stops (route_id, sequence, client_id, address, window_start, window_end, notes)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`), r.ID, stop.Sequence, stop.ClientID, address, stop.WindowStart, stop.WindowEnd, stop.Notes)
			if err != nil {
				return fmt.Errorf("stop %d: %w", stop.Sequence, err)
			}
		}
		return nil
	})
	return saveError("route", err)
}

// Get retrieves a route and its stops by ID within a tenant.
func (s *routeStore) Get(ctx context.Context, tenantID, id string) (*domain.DeliveryRoute, error) {
	route, err := queryOne(ctx, s.store, scanRoute,
		`SELECT `+routeColumns+` FROM delivery_routes WHERE tenant_id = ? AND id = ?`, tenantID, id)
	if err != nil {
		return nil, err
	}
	stops, err := s.stops(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	route.Stops = stops[route.ID]
	return route, nil
}

// List returns a tenant's routes ordered by weekday and name.
func (s *routeStore) List(ctx context.Context, tenantID string) ([]domain.DeliveryRoute, error) {
	routes, err := queryAll(ctx, s.store, scanRoute, `
		SELECT `+routeColumns+` FROM delivery_routes
		WHERE tenant_id = ?
		ORDER BY weekday, name, id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	stops, err := s.stops(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range routes {
		routes[i].Stops = stops[routes[i].ID]
	}
	return routes, nil
}

// Delete removes a route. Its stops cascade.
func (s *routeStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("route", s.store.exec(ctx,
		`DELETE FROM delivery_routes WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

// stops loads every stop of the tenant's routes keyed by route ID.
func (s *routeStore) stops(ctx context.Context, tenantID string) (map[string][]domain.RouteStop, error) {
	rows, err := s.store.db.QueryContext(ctx, s.store.dialect.rebind(`
		SELECT st.route_id, st.sequence, st.client_id, st.address, st.window_start, st.window_end, st.notes
		FROM route_stops st
		JOIN delivery_routes r ON r.id = st.route_id
		WHERE r.tenant_id = ?
		ORDER BY st.route_id, st.sequence
	`), tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying route stops: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.RouteStop)
	for rows.Next() {
		var routeID, address string
		var stop domain.RouteStop
		if err := rows.Scan(&routeID, &stop.Sequence, &stop.ClientID, &address,
			&stop.WindowStart, &stop.WindowEnd, &stop.Notes); err != nil {
			return nil, fmt.Errorf("scanning route stop: %w", err)
		}
		if err := decodeJSON(address, &stop.Address); err != nil {
			return nil, fmt.Errorf("decoding stop address: %w", err)
		}
		result[routeID] = append(result[routeID], stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating route stops: %w", err)
	}
	return result, nil
}

func scanRoute(row scanner) (*domain.DeliveryRoute, error) {
	var r domain.DeliveryRoute
	var weekday int
	var createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.TenantID, &r.Name, &weekday, &r.DriverID, &r.Notes,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning route: %w", err)
	}
	r.Weekday = time.Weekday(weekday)
	var ts stamps
	r.CreatedAt = ts.at("created_at", createdAt)
	r.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning route %s: %w", r.ID, ts.err)
	}
	return &r, nil
}
