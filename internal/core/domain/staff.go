package domain

import "time"

// Role is a staff member's job within the clinic.
type Role string

// Staff roles.
const (
	RoleVet          Role = "vet"
	RoleGroomer      Role = "groomer"
	RoleAssistant    Role = "assistant"
	RoleReceptionist Role = "receptionist"
	RoleDriver       Role = "driver"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleVet, RoleGroomer, RoleAssistant, RoleReceptionist, RoleDriver:
		return true
	default:
		return false
	}
}

// Staff is a person who can be assigned to appointments or routes.
type Staff struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Phone     string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomKind classifies a room by the work it supports.
type RoomKind string

// Room kinds.
const (
	RoomConsult  RoomKind = "consult"
	RoomSurgery  RoomKind = "surgery"
	RoomGrooming RoomKind = "grooming"
	RoomImaging  RoomKind = "imaging"
)

// IsValid returns true if the room kind is recognised.
func (k RoomKind) IsValid() bool {
	switch k {
	case RoomConsult, RoomSurgery, RoomGrooming, RoomImaging:
		return true
	default:
		return false
	}
}

// Room is a bookable physical space.
type Room struct {
	ID        string
	TenantID  string
	Name      string
	Kind      RoomKind
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service is an offering in the clinic's catalog, such as a consultation or a bath.
type Service struct {
	ID              string
	TenantID        string
	Name            string
	Category        string
	DurationMinutes int
	PriceCents      int64

	// StaffRole is the role required to perform the service. Empty means no staff.
	StaffRole Role

	// RoomKind is the room required. Empty means no room, as for home visits.
	RoomKind RoomKind

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration returns the service length.
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
