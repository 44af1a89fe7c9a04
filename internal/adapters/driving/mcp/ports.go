package mcp

import (
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Tenants resolves the clinic a tool call refers to.
	Tenants driving.TenantService

	// Appointments checks availability and books slots.
	Appointments driving.AppointmentService

	// Catalog lists services. Optional.
	Catalog driving.CatalogService

	// Postal looks up colonias. Optional.
	Postal driving.PostalService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Tenants == nil {
		return ErrMissingTenantService
	}
	if p.Appointments == nil {
		return ErrMissingAppointmentService
	}
	return nil
}
