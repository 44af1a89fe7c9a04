package driving

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// StaffService manages clinic staff.
type StaffService interface {
	// Create stores a staff member, enforcing the company plan's staff limit.
	Create(ctx context.Context, staff domain.Staff) (*domain.Staff, error)

	Get(ctx context.Context, tenantID, id string) (*domain.Staff, error)
	List(ctx context.Context, tenantID string) ([]domain.Staff, error)
	Update(ctx context.Context, staff domain.Staff) error

	// Delete removes a staff member with no upcoming appointments or routes.
	Delete(ctx context.Context, tenantID, id string) error
}

// RoomService manages rooms.
type RoomService interface {
	Create(ctx context.Context, room domain.Room) (*domain.Room, error)
	Get(ctx context.Context, tenantID, id string) (*domain.Room, error)
	List(ctx context.Context, tenantID string) ([]domain.Room, error)
	Update(ctx context.Context, room domain.Room) error
	Delete(ctx context.Context, tenantID, id string) error
}

// CatalogService manages the services a clinic offers.
type CatalogService interface {
	Create(ctx context.Context, service domain.Service) (*domain.Service, error)
	Get(ctx context.Context, tenantID, id string) (*domain.Service, error)
	List(ctx context.Context, tenantID string) ([]domain.Service, error)
	Update(ctx context.Context, service domain.Service) error
	Delete(ctx context.Context, tenantID, id string) error
}
