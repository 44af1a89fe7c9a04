package domain

import "time"

// DeliveryRoute is a weekly run of home deliveries or pick-ups.
type DeliveryRoute struct {
	ID       string
	TenantID string
	Name     string
	Weekday  time.Weekday

	// DriverID references an active staff member with the driver role.
	DriverID string

	Stops     []RouteStop
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RouteStop is one client visited on a route.
type RouteStop struct {
	// Sequence is 1-based and contiguous within a route.
	Sequence int

	ClientID string
	Address  Address

	// WindowStart and WindowEnd are minutes since midnight. Both zero means any time.
	WindowStart int
	WindowEnd   int

	Notes string
}

// HasWindow reports whether the stop has a delivery window.
func (s RouteStop) HasWindow() bool {
	return s.WindowStart != 0 || s.WindowEnd != 0
}
