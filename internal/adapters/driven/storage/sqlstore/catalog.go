package sqlstore

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

var (
	_ driven.StaffStore   = (*staffStore)(nil)
	_ driven.RoomStore    = (*roomStore)(nil)
	_ driven.ServiceStore = (*serviceStore)(nil)
)

// ==================== Staff Store ====================

type staffStore struct {
	store *Store
}

const staffColumns = `id, tenant_id, name, email, phone, role, active, created_at, updated_at`

func (s *staffStore) Save(ctx context.Context, m domain.Staff) error {
	err := s.store.exec(ctx, `
		INSERT INTO staff (`+staffColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			role = excluded.role,
			active = excluded.active,
			updated_at = excluded.updated_at
	`, m.ID, m.TenantID, m.Name, m.Email, m.Phone, string(m.Role), m.Active,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
	return saveError("staff member", err)
}

func (s *staffStore) Get(ctx context.Context, tenantID, id string) (*domain.Staff, error) {
	return queryOne(ctx, s.store, scanStaff,
		`SELECT `+staffColumns+` FROM staff WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

func (s *staffStore) List(ctx context.Context, tenantID string) ([]domain.Staff, error) {
	staff, err := queryAll(ctx, s.store, scanStaff,
		`SELECT `+staffColumns+` FROM staff WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	return staff, nil
}

func (s *staffStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("staff member", s.store.exec(ctx,
		`DELETE FROM staff WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

func scanStaff(row scanner) (*domain.Staff, error) {
	var m domain.Staff
	var role, createdAt, updatedAt string
	if err := row.Scan(&m.ID, &m.TenantID, &m.Name, &m.Email, &m.Phone, &role, &m.Active,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning staff: %w", err)
	}
	m.Role = domain.Role(role)
	var ts stamps
	m.CreatedAt = ts.at("created_at", createdAt)
	m.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning staff %s: %w", m.ID, ts.err)
	}
	return &m, nil
}

// ==================== Room Store ====================

type roomStore struct {
	store *Store
}

const roomColumns = `id, tenant_id, name, kind, active, created_at, updated_at`

func (s *roomStore) Save(ctx context.Context, r domain.Room) error {
	err := s.store.exec(ctx, `
		INSERT INTO rooms (`+roomColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			active = excluded.active,
			updated_at = excluded.updated_at
	`, r.ID, r.TenantID, r.Name, string(r.Kind), r.Active, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	return saveError("room", err)
}

func (s *roomStore) Get(ctx context.Context, tenantID, id string) (*domain.Room, error) {
	return queryOne(ctx, s.store, scanRoom,
		`SELECT `+roomColumns+` FROM rooms WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

func (s *roomStore) List(ctx context.Context, tenantID string) ([]domain.Room, error) {
	rooms, err := queryAll(ctx, s.store, scanRoom,
		`SELECT `+roomColumns+` FROM rooms WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	return rooms, nil
}

func (s *roomStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("room", s.store.exec(ctx,
		`DELETE FROM rooms WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

func scanRoom(row scanner) (*domain.Room, error) {
	var r domain.Room
	var kind, createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.TenantID, &r.Name, &kind, &r.Active, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	r.Kind = domain.RoomKind(kind)
	var ts stamps
	r.CreatedAt = ts.at("created_at", createdAt)
	r.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning room %s: %w", r.ID, ts.err)
	}
	return &r, nil
}

// ==================== Service Store ====================

type serviceStore struct {
	store *Store
}

const serviceColumns = `id, tenant_id, name, category, duration_minutes, price_cents, staff_role, room_kind, active, created_at, updated_at`

func (s *serviceStore) Save(ctx context.Context, svc domain.Service) error {
	err := s.store.exec(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			duration_minutes = excluded.duration_minutes,
			price_cents = excluded.price_cents,
			staff_role = excluded.staff_role,
			room_kind = excluded.room_kind,
			active = excluded.active,
			updated_at = excluded.updated_at
	`, svc.ID, svc.TenantID, svc.Name, svc.Category, svc.DurationMinutes, svc.PriceCents,
		string(svc.StaffRole), string(svc.RoomKind), svc.Active,
		formatTime(svc.CreatedAt), formatTime(svc.UpdatedAt))
	return saveError("service", err)
}

func (s *serviceStore) Get(ctx context.Context, tenantID, id string) (*domain.Service, error) {
	return queryOne(ctx, s.store, scanService,
		`SELECT `+serviceColumns+` FROM services WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

func (s *serviceStore) List(ctx context.Context, tenantID string) ([]domain.Service, error) {
	services, err := queryAll(ctx, s.store, scanService,
		`SELECT `+serviceColumns+` FROM services WHERE tenant_id = ? ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	return services, nil
}

func (s *serviceStore) Delete(ctx context.Context, tenantID, id string) error {
	return deleteError("service", s.store.exec(ctx,
		`DELETE FROM services WHERE tenant_id = ? AND id = ?`, tenantID, id))
}

func scanService(row scanner) (*domain.Service, error) {
	var svc domain.Service
	var role, kind, createdAt, updatedAt string
	if err := row.Scan(&svc.ID, &svc.TenantID, &svc.Name, &svc.Category, &svc.DurationMinutes,
		&svc.PriceCents, &role, &kind, &svc.Active, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning service: %w", err)
	}
	svc.StaffRole = domain.Role(role)
	svc.RoomKind = domain.RoomKind(kind)
	var ts stamps
	svc.CreatedAt = ts.at("created_at", createdAt)
	svc.UpdatedAt = ts.at("updated_at", updatedAt)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning service %s: %w", svc.ID, ts.err)
	}
	return &svc, nil
}
