// Package mcp provides an MCP (Model Context Protocol) server adapter for Vetdesk.
// It lets assistants check slot availability, book appointments and read a
// clinic's agenda and service catalog.
package mcp

import "errors"

var (
	// ErrMissingTenantService is returned when the tenant service is not provided.
	ErrMissingTenantService = errors.New("mcp: tenant service is required")

	// ErrMissingAppointmentService is returned when the appointment service is not provided.
	ErrMissingAppointmentService = errors.New("mcp: appointment service is required")
)
