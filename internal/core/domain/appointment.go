package domain

import "time"

// AppointmentKind distinguishes in-clinic from home visits.
type AppointmentKind string

// Appointment kinds.
const (
	KindClinic    AppointmentKind = "clinic"
	KindHomeVisit AppointmentKind = "home_visit"
)

// IsValid returns true if the kind is recognised.
func (k AppointmentKind) IsValid() bool {
	return k == KindClinic || k == KindHomeVisit
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

// Appointment statuses.
const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// IsValid returns true if the status is recognised.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an appointment may move from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s AppointmentStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// BlocksSlot reports whether an appointment in this status occupies its slot.
func (s AppointmentStatus) BlocksSlot() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Appointment is a booked service for a pet.
type Appointment struct {
	ID        string
	TenantID  string
	ClientID  string
	PetID     string
	ServiceID string

	// StaffID and RoomID are empty when the service needs neither.
	StaffID string
	RoomID  string

	Kind   AppointmentKind
	Status AppointmentStatus

	// Start and End are stored in UTC. End is exclusive.
	Start time.Time
	End   time.Time

	// Address is where a home visit takes place.
	Address Address

	Notes string

	// CalendarEventID is set once the appointment is mirrored to an external calendar.
	CalendarEventID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether the appointment intersects [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.Start.Before(end) && start.Before(a.End)
}

// BookingRequest asks for an appointment slot.
type BookingRequest struct {
	TenantID  string
	ClientID  string
	PetID     string
	ServiceID string

	// StaffID and RoomID are optional; free matching resources are assigned when empty.
	StaffID string
	RoomID  string

	Kind    AppointmentKind
	Start   time.Time
	Address Address
	Notes   string

	// ExcludeID ignores one appointment when checking conflicts, used when rescheduling.
	ExcludeID string
}

// ConflictReason identifies why a slot check failed.
type ConflictReason string

// Conflict reasons.
const (
	ConflictMissingField     ConflictReason = "missing_field"
	ConflictUnknownClient    ConflictReason = "unknown_client"
	ConflictUnknownPet       ConflictReason = "unknown_pet"
	ConflictPetNotOwned      ConflictReason = "pet_not_owned"
	ConflictUnknownService   ConflictReason = "unknown_service"
	ConflictServiceInactive  ConflictReason = "service_inactive"
	ConflictInPast           ConflictReason = "in_past"
	ConflictOffGrid          ConflictReason = "off_grid"
	ConflictOutsideHours     ConflictReason = "outside_hours"
	ConflictStaffUnavailable ConflictReason = "staff_unavailable"
	ConflictStaffRole        ConflictReason = "staff_role"
	ConflictStaffBusy        ConflictReason = "staff_busy"
	ConflictRoomUnavailable  ConflictReason = "room_unavailable"
	ConflictRoomKind         ConflictReason = "room_kind"
	ConflictRoomBusy         ConflictReason = "room_busy"
	ConflictPetBusy          ConflictReason = "pet_busy"
	ConflictNoStaffFree      ConflictReason = "no_staff_free"
	ConflictNoRoomFree       ConflictReason = "no_room_free"
	ConflictAddressRequired  ConflictReason = "address_required"
)

// Conflict is one reason a requested slot cannot be booked.
type Conflict struct {
	Reason  ConflictReason
	Field   string
	Message string

	// AppointmentID is the existing appointment that collides, when there is one.
	AppointmentID string
}

// Slot is a concrete bookable time with its assigned resources.
type Slot struct {
	Start   time.Time
	End     time.Time
	StaffID string
	RoomID  string
}

// Availability is the result of a slot availability check.
type Availability struct {
	Available bool

	// Slot holds the resolved slot, including auto-assigned staff and room.
	Slot Slot

	Conflicts []Conflict

	// Suggestions are nearby free slots when the request is unavailable.
	Suggestions []Slot
}

// HasReason reports whether any conflict has the given reason.
func (a *Availability) HasReason(reason ConflictReason) bool {
	for _, c := range a.Conflicts {
		if c.Reason == reason {
			return true
		}
	}
	return false
}
