package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// StaffStore persists staff members.
type StaffStore interface {
	Save(ctx context.Context, staff domain.Staff) error
	Get(ctx context.Context, tenantID, id string) (*domain.Staff, error)

	// List returns a tenant's staff ordered by name.
	List(ctx context.Context, tenantID string) ([]domain.Staff, error)

	Delete(ctx context.Context, tenantID, id string) error
}

// RoomStore persists rooms.
type RoomStore interface {
	Save(ctx context.Context, room domain.Room) error
	Get(ctx context.Context, tenantID, id string) (*domain.Room, error)

	// List returns a tenant's rooms ordered by name.
	List(ctx context.Context, tenantID string) ([]domain.Room, error)

	Delete(ctx context.Context, tenantID, id string) error
}

// ServiceStore persists the service catalog.
type ServiceStore interface {
	Save(ctx context.Context, service domain.Service) error
	Get(ctx context.Context, tenantID, id string) (*domain.Service, error)

	// List returns a tenant's services ordered by name.
	List(ctx context.Context, tenantID string) ([]domain.Service, error)

	Delete(ctx context.Context, tenantID, id string) error
}
