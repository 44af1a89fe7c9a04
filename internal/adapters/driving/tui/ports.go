// Package tui provides the interactive day agenda for the front desk.
// It is a driving adapter over the core services.
package tui

import (
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
// Clients and Catalog are optional and only used to show names.
type Ports struct {
	Tenants      driving.TenantService
	Appointments driving.AppointmentService
	Clients      driving.ClientService
	Catalog      driving.CatalogService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Tenants == nil {
		return ErrMissingTenantService
	}
	if p.Appointments == nil {
		return ErrMissingAppointmentService
	}
	return nil
}
