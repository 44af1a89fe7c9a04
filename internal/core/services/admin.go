package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ensure services implement the interfaces.
var (
	_ driving.StaffService   = (*StaffService)(nil)
	_ driving.RoomService    = (*RoomService)(nil)
	_ driving.CatalogService = (*CatalogService)(nil)
)

// StaffService manages staff members.
type StaffService struct {
	staff     driven.StaffStore
	tenants   driven.TenantStore
	companies driven.CompanyStore
	appts     driven.AppointmentStore
	routes    driven.RouteStore
	now       func() time.Time
}

// NewStaffService creates a new staff service.
// tenants and companies are used to enforce plan limits and may be nil.
func NewStaffService(
	staff driven.StaffStore,
	tenants driven.TenantStore,
	companies driven.CompanyStore,
	appts driven.AppointmentStore,
	routes driven.RouteStore,
) *StaffService {
	return &StaffService{
		staff:     staff,
		tenants:   tenants,
		companies: companies,
		appts:     appts,
		routes:    routes,
		now:       time.Now,
	}
}

// Create stores an active staff member.
func (s *StaffService) Create(ctx context.Context, staff domain.Staff) (*domain.Staff, error) {
	if s.staff == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateStaff(&staff); err != nil {
		return nil, err
	}
	staff.Active = true
	if err := s.checkPlanLimit(ctx, staff.TenantID, ""); err != nil {
		return nil, err
	}
	if staff.ID == "" {
		staff.ID = newID()
	}
	staff.CreatedAt = s.now().UTC()
	staff.UpdatedAt = staff.CreatedAt
	if err := s.staff.Save(ctx, staff); err != nil {
		return nil, fmt.Errorf("saving staff: %w", err)
	}
	return &staff, nil
}

// Get retrieves a staff member.
func (s *StaffService) Get(ctx context.Context, tenantID, id string) (*domain.Staff, error) {
	if s.staff == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.staff.Get(ctx, tenantID, id)
}

// List returns a tenant's staff.
func (s *StaffService) List(ctx context.Context, tenantID string) ([]domain.Staff, error) {
	if s.staff == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.staff.List(ctx, tenantID)
}

// Update modifies a staff member. Reactivating counts against the plan limit.
func (s *StaffService) Update(ctx context.Context, staff domain.Staff) error {
	if s.staff == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.staff.Get(ctx, staff.TenantID, staff.ID)
	if err != nil {
		return err
	}
	if err := validateStaff(&staff); err != nil {
		return err
	}
	if staff.Active && !existing.Active {
		if err := s.checkPlanLimit(ctx, staff.TenantID, staff.ID); err != nil {
			return err
		}
	}
	staff.CreatedAt = existing.CreatedAt
	staff.UpdatedAt = s.now().UTC()
	return s.staff.Save(ctx, staff)
}

// Delete removes a staff member that no upcoming appointment or route references.
func (s *StaffService) Delete(ctx context.Context, tenantID, id string) error {
	if s.staff == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.staff.Get(ctx, tenantID, id); err != nil {
		return err
	}
	appts, err := upcoming(ctx, s.appts, tenantID, s.now())
	if err != nil {
		return err
	}
	for i := range appts {
		if appts[i].StaffID == id {
			return fmt.Errorf("staff assigned to appointment %s: %w", appts[i].ID, domain.ErrInUse)
		}
	}
	if s.routes != nil {
		routes, err := s.routes.List(ctx, tenantID)
		if err != nil {
			return err
		}
		for i := range routes {
			if routes[i].DriverID == id {
				return fmt.Errorf("staff drives route %q: %w", routes[i].Name, domain.ErrInUse)
			}
		}
	}
	return s.staff.Delete(ctx, tenantID, id)
}

// checkPlanLimit fails when the tenant already has as many active staff as its plan allows.
func (s *StaffService) checkPlanLimit(ctx context.Context, tenantID, excludeID string) error {
	if s.tenants == nil || s.companies == nil {
		return nil
	}
	tenant, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("tenant %q: %w", tenantID, err)
	}
	company, err := s.companies.Get(ctx, tenant.CompanyID)
	if err != nil {
		return fmt.Errorf("company %q: %w", tenant.CompanyID, err)
	}
	limit := company.Plan.MaxStaff()
	if limit == 0 {
		return nil
	}
	staff, err := s.staff.List(ctx, tenantID)
	if err != nil {
		return err
	}
	active := 0
	for i := range staff {
		if staff[i].Active && staff[i].ID != excludeID {
			active++
		}
	}
	if active >= limit {
		return fmt.Errorf("plan %s allows %d active staff: %w", company.Plan, limit, domain.ErrPlanLimitReached)
	}
	return nil
}

func validateStaff(s *domain.Staff) error {
	s.Name = strings.TrimSpace(s.Name)
	if err := required("tenant_id", s.TenantID); err != nil {
		return err
	}
	if err := required("name", s.Name); err != nil {
		return err
	}
	if !s.Role.IsValid() {
		return domain.Invalid("role", "unknown role %q", s.Role)
	}
	if s.Phone != "" {
		phone, ok := NormalisePhone(s.Phone)
		if !ok {
			return domain.Invalid("phone", "%q is not a 10-digit phone number", s.Phone)
		}
		s.Phone = phone
	}
	return nil
}

// RoomService manages rooms.
type RoomService struct {
	rooms driven.RoomStore
	appts driven.AppointmentStore
	now   func() time.Time
}

// NewRoomService creates a new room service.
func NewRoomService(rooms driven.RoomStore, appts driven.AppointmentStore) *RoomService {
	return &RoomService{rooms: rooms, appts: appts, now: time.Now}
}

// Create stores an active room.
func (s *RoomService) Create(ctx context.Context, room domain.Room) (*domain.Room, error) {
	if s.rooms == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateRoom(&room); err != nil {
		return nil, err
	}
	room.Active = true
	if room.ID == "" {
		room.ID = newID()
	}
	room.CreatedAt = s.now().UTC()
	room.UpdatedAt = room.CreatedAt
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}
	return &room, nil
}

// Get retrieves a room.
func (s *RoomService) Get(ctx context.Context, tenantID, id string) (*domain.Room, error) {
	if s.rooms == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.rooms.Get(ctx, tenantID, id)
}

// List returns a tenant's rooms.
func (s *RoomService) List(ctx context.Context, tenantID string) ([]domain.Room, error) {
	if s.rooms == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.rooms.List(ctx, tenantID)
}

// Update modifies a room.
func (s *RoomService) Update(ctx context.Context, room domain.Room) error {
	if s.rooms == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.rooms.Get(ctx, room.TenantID, room.ID)
	if err != nil {
		return err
	}
	if err := validateRoom(&room); err != nil {
		return err
	}
	room.CreatedAt = existing.CreatedAt
	room.UpdatedAt = s.now().UTC()
	return s.rooms.Save(ctx, room)
}

// Delete removes a room that no upcoming appointment uses.
func (s *RoomService) Delete(ctx context.Context, tenantID, id string) error {
	if s.rooms == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.rooms.Get(ctx, tenantID, id); err != nil {
		return err
	}
	appts, err := upcoming(ctx, s.appts, tenantID, s.now())
	if err != nil {
		return err
	}
	for i := range appts {
		if appts[i].RoomID == id {
			return fmt.Errorf("room booked by appointment %s: %w", appts[i].ID, domain.ErrInUse)
		}
	}
	return s.rooms.Delete(ctx, tenantID, id)
}

func validateRoom(r *domain.Room) error {
	r.Name = strings.TrimSpace(r.Name)
	if err := required("tenant_id", r.TenantID); err != nil {
		return err
	}
	if err := required("name", r.Name); err != nil {
		return err
	}
	if !r.Kind.IsValid() {
		return domain.Invalid("kind", "unknown room kind %q", r.Kind)
	}
	return nil
}

// CatalogService manages the service catalog.
type CatalogService struct {
	services driven.ServiceStore
	appts    driven.AppointmentStore
	now      func() time.Time
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(services driven.ServiceStore, appts driven.AppointmentStore) *CatalogService {
	return &CatalogService{services: services, appts: appts, now: time.Now}
}

// Create stores an active service.
func (s *CatalogService) Create(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	if s.services == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateService(&svc); err != nil {
		return nil, err
	}
	svc.Active = true
	if svc.ID == "" {
		svc.ID = newID()
	}
	svc.CreatedAt = s.now().UTC()
	svc.UpdatedAt = svc.CreatedAt
	if err := s.services.Save(ctx, svc); err != nil {
		return nil, fmt.Errorf("saving service: %w", err)
	}
	return &svc, nil
}

// Get retrieves a service.
func (s *CatalogService) Get(ctx context.Context, tenantID, id string) (*domain.Service, error) {
	if s.services == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.services.Get(ctx, tenantID, id)
}

// List returns a tenant's services.
func (s *CatalogService) List(ctx context.Context, tenantID string) ([]domain.Service, error) {
	if s.services == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.services.List(ctx, tenantID)
}

// Update modifies a service. Existing appointments keep their booked times.
func (s *CatalogService) Update(ctx context.Context, svc domain.Service) error {
	if s.services == nil {
		return domain.ErrNotImplemented
	}
	existing, err := s.services.Get(ctx, svc.TenantID, svc.ID)
	if err != nil {
		return err
	}
	if err := validateService(&svc); err != nil {
		return err
	}
	svc.CreatedAt = existing.CreatedAt
	svc.UpdatedAt = s.now().UTC()
	return s.services.Save(ctx, svc)
}

// Delete removes a service that no upcoming appointment uses.
func (s *CatalogService) Delete(ctx context.Context, tenantID, id string) error {
	if s.services == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.services.Get(ctx, tenantID, id); err != nil {
		return err
	}
	appts, err := upcoming(ctx, s.appts, tenantID, s.now())
	if err != nil {
		return err
	}
	for i := range appts {
		if appts[i].ServiceID == id {
			return fmt.Errorf("service booked by appointment %s: %w", appts[i].ID, domain.ErrInUse)
		}
	}
	return s.services.Delete(ctx, tenantID, id)
}

func validateService(s *domain.Service) error {
	s.Name = strings.TrimSpace(s.Name)
	if err := required("tenant_id", s.TenantID); err != nil {
		return err
	}
	if err := required("name", s.Name); err != nil {
		return err
	}
	if s.DurationMinutes < 5 || s.DurationMinutes > 480 || s.DurationMinutes%5 != 0 {
		return domain.Invalid("duration_minutes", "must be a multiple of 5 between 5 and 480, got %d", s.DurationMinutes)
	}
	if s.PriceCents < 0 {
		return domain.Invalid("price", "must not be negative")
	}
	if s.StaffRole != "" && !s.StaffRole.IsValid() {
		return domain.Invalid("staff_role", "unknown role %q", s.StaffRole)
	}
	if s.RoomKind != "" && !s.RoomKind.IsValid() {
		return domain.Invalid("room_kind", "unknown room kind %q", s.RoomKind)
	}
	return nil
}
