// Package domain holds vetdesk's entities and the rules that need no I/O:
// booking windows and overlaps, intake validation, stock thresholds and
// receipt totals.
//
// Every record outside Company carries a TenantID; a tenant is one clinic.
// Companies own tenants and are the unit of billing.
//
// The package imports only the standard library. Ports, services and
// adapters all depend on it, so nothing here may reach outward.
package domain
