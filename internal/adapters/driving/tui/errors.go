package tui

import "errors"

// ErrMissingTenantService is returned when the tenant service is not provided.
var ErrMissingTenantService = errors.New("tui: tenant service is required")

// ErrMissingAppointmentService is returned when the appointment service is not provided.
var ErrMissingAppointmentService = errors.New("tui: appointment service is required")
