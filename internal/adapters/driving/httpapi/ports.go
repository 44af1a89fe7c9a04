package httpapi

import (
	"errors"

	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// ErrMissingTenantService is returned when the tenant service is not provided.
var ErrMissingTenantService = errors.New("httpapi: tenant service is required")

// Ports aggregates the driving ports the REST API serves.
// Only Tenants is required; routes backed by a nil port answer 501.
type Ports struct {
	Companies    driving.CompanyService
	Tenants      driving.TenantService
	Clients      driving.ClientService
	Staff        driving.StaffService
	Rooms        driving.RoomService
	Catalog      driving.CatalogService
	Appointments driving.AppointmentService
	Inventory    driving.InventoryService
	Receipts     driving.ReceiptService
	Routes       driving.RouteService
	Postal       driving.PostalService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Tenants == nil {
		return ErrMissingTenantService
	}
	return nil
}
