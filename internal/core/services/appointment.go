package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Ensure AppointmentService implements the interface.
var _ driving.AppointmentService = (*AppointmentService)(nil)

const (
	// suggestionLimit caps how many alternative slots are offered.
	suggestionLimit = 5

	// suggestionWindow is how far ahead alternatives are searched.
	suggestionWindow = 14 * 24 * time.Hour
)

// resolvable lists conflicts that another start time can fix.
var resolvable = map[domain.ConflictReason]bool{
	domain.ConflictInPast:       true,
	domain.ConflictOffGrid:      true,
	domain.ConflictOutsideHours: true,
	domain.ConflictStaffBusy:    true,
	domain.ConflictRoomBusy:     true,
	domain.ConflictPetBusy:      true,
	domain.ConflictNoStaffFree:  true,
	domain.ConflictNoRoomFree:   true,
}

// AppointmentService runs the slot availability check and manages bookings.
type AppointmentService struct {
	tenants   driven.TenantStore
	clients   driven.ClientStore
	pets      driven.PetStore
	services  driven.ServiceStore
	staff     driven.StaffStore
	rooms     driven.RoomStore
	appts     driven.AppointmentStore
	publisher driven.CalendarPublisher
	now       func() time.Time

	// locks serialises check-and-book per tenant.
	locks sync.Map
}

// AppointmentStores groups the stores the appointment service reads.
type AppointmentStores struct {
	Tenants      driven.TenantStore
	Clients      driven.ClientStore
	Pets         driven.PetStore
	Services     driven.ServiceStore
	Staff        driven.StaffStore
	Rooms        driven.RoomStore
	Appointments driven.AppointmentStore
}

// NewAppointmentService creates a new appointment service.
func NewAppointmentService(stores AppointmentStores) *AppointmentService {
	return &AppointmentService{
		tenants:  stores.Tenants,
		clients:  stores.Clients,
		pets:     stores.Pets,
		services: stores.Services,
		staff:    stores.Staff,
		rooms:    stores.Rooms,
		appts:    stores.Appointments,
		now:      time.Now,
	}
}

// SetCalendarPublisher enables mirroring appointments to an external calendar.
func (s *AppointmentService) SetCalendarPublisher(p driven.CalendarPublisher) {
	s.publisher = p
}

func (s *AppointmentService) lock(tenantID string) func() {
	mu, _ := s.locks.LoadOrStore(tenantID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// slotCheck carries everything loaded once for a request so candidate
// start times can be evaluated cheaply.
type slotCheck struct {
	tenant   *domain.Tenant
	loc      *time.Location
	req      domain.BookingRequest
	service  *domain.Service
	staff    []domain.Staff
	rooms    []domain.Room
	existing []domain.Appointment
	now      time.Time
}

// CheckAvailability reports whether a slot can be booked.
func (s *AppointmentService) CheckAvailability(
	ctx context.Context,
	req domain.BookingRequest,
) (*domain.Availability, error) {
	av, _, err := s.check(ctx, req)
	return av, err
}

func (s *AppointmentService) check(
	ctx context.Context,
	req domain.BookingRequest,
) (*domain.Availability, *slotCheck, error) {
	if s.appts == nil || s.tenants == nil {
		return nil, nil, domain.ErrNotImplemented
	}
	tenant, err := s.tenants.Get(ctx, req.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("tenant %q: %w", req.TenantID, err)
	}
	loc, err := tenant.Location()
	if err != nil {
		return nil, nil, err
	}
	if req.Kind == "" {
		req.Kind = domain.KindClinic
	}
	if !req.Kind.IsValid() {
		return nil, nil, domain.Invalid("kind", "unknown appointment kind %q", req.Kind)
	}

	c := &slotCheck{tenant: tenant, loc: loc, now: s.now()}
	conflicts, err := s.resolveRequest(ctx, &req, c)
	if err != nil {
		return nil, nil, err
	}
	c.req = req
	// Without a service or a start there is nothing to time; report the
	// reference problems alone.
	if c.service == nil || req.Start.IsZero() {
		av := &domain.Availability{Conflicts: conflicts}
		if !req.Start.IsZero() {
			av.Slot = domain.Slot{Start: req.Start.UTC(), End: req.Start.UTC()}
		}
		return av, c, nil
	}

	if err := s.loadResources(ctx, c); err != nil {
		return nil, nil, err
	}

	slot, timed := c.evaluate(req.Start)
	conflicts = append(conflicts, timed...)
	av := &domain.Availability{
		Available: len(conflicts) == 0,
		Slot:      slot,
		Conflicts: conflicts,
	}
	if !av.Available && allResolvable(conflicts) {
		av.Suggestions = c.suggest()
	}
	return av, c, nil
}

// resolveRequest validates references that do not depend on time.
func (s *AppointmentService) resolveRequest(
	ctx context.Context,
	req *domain.BookingRequest,
	c *slotCheck,
) ([]domain.Conflict, error) {
	var conflicts []domain.Conflict
	missing := func(field string) {
		conflicts = append(conflicts, domain.Conflict{
			Reason:  domain.ConflictMissingField,
			Field:   field,
			Message: field + " is required",
		})
	}
	if req.ClientID == "" {
		missing("client_id")
	}
	if req.PetID == "" {
		missing("pet_id")
	}
	if req.ServiceID == "" {
		missing("service_id")
	}
	if req.Start.IsZero() {
		missing("start")
	}

	var client *domain.Client
	if req.ClientID != "" && s.clients != nil {
		cl, err := s.clients.Get(ctx, req.TenantID, req.ClientID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictUnknownClient,
				Field:   "client_id",
				Message: fmt.Sprintf("client %s does not exist", req.ClientID),
			})
		case err != nil:
			return nil, err
		default:
			client = cl
		}
	}

	if req.PetID != "" && s.pets != nil {
		pet, err := s.pets.Get(ctx, req.TenantID, req.PetID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictUnknownPet,
				Field:   "pet_id",
				Message: fmt.Sprintf("pet %s does not exist", req.PetID),
			})
		case err != nil:
			return nil, err
		case pet.ClientID != req.ClientID:
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictPetNotOwned,
				Field:   "pet_id",
				Message: fmt.Sprintf("%s does not belong to this client", pet.Name),
			})
		}
	}

	if req.ServiceID != "" && s.services != nil {
		svc, err := s.services.Get(ctx, req.TenantID, req.ServiceID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictUnknownService,
				Field:   "service_id",
				Message: fmt.Sprintf("service %s does not exist", req.ServiceID),
			})
		case err != nil:
			return nil, err
		case !svc.Active:
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictServiceInactive,
				Field:   "service_id",
				Message: fmt.Sprintf("%s is no longer offered", svc.Name),
			})
		default:
			c.service = svc
		}
	}

	if req.Kind == domain.KindHomeVisit && req.Address.IsZero() {
		if client != nil && !client.Address.IsZero() {
			req.Address = client.Address
		} else {
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictAddressRequired,
				Field:   "address",
				Message: "home visits need an address",
			})
		}
	}
	if c.service == nil && len(conflicts) == 0 {
		return nil, domain.ErrNotImplemented
	}
	return conflicts, nil
}

func (s *AppointmentService) loadResources(ctx context.Context, c *slotCheck) error {
	if s.staff != nil {
		staff, err := s.staff.List(ctx, c.tenant.ID)
		if err != nil {
			return err
		}
		c.staff = slices.Clone(staff)
		slices.SortStableFunc(c.staff, func(a, b domain.Staff) int { return strings.Compare(a.Name, b.Name) })
	}
	if s.rooms != nil {
		rooms, err := s.rooms.List(ctx, c.tenant.ID)
		if err != nil {
			return err
		}
		c.rooms = slices.Clone(rooms)
		slices.SortStableFunc(c.rooms, func(a, b domain.Room) int { return strings.Compare(a.Name, b.Name) })
	}

	from := c.req.Start
	if c.now.Before(from) {
		from = c.now
	}
	to := c.req.Start
	if c.now.After(to) {
		to = c.now
	}
	from = from.Add(-24 * time.Hour)
	to = to.Add(suggestionWindow + 24*time.Hour)
	appts, err := s.appts.ListRange(ctx, c.tenant.ID, from, to)
	if err != nil {
		return fmt.Errorf("loading appointments: %w", err)
	}
	for _, a := range appts {
		if a.Status.BlocksSlot() && a.ID != c.req.ExcludeID {
			c.existing = append(c.existing, a)
		}
	}
	return nil
}

// evaluate checks one candidate start time.
func (c *slotCheck) evaluate(start time.Time) (domain.Slot, []domain.Conflict) {
	start = start.UTC()
	end := start.Add(c.service.Duration())
	slot := domain.Slot{Start: start, End: end}
	var conflicts []domain.Conflict

	if start.Before(c.now) {
		conflicts = append(conflicts, domain.Conflict{
			Reason:  domain.ConflictInPast,
			Field:   "start",
			Message: "start time is in the past",
		})
	}

	local := start.In(c.loc)
	minutes := local.Hour()*60 + local.Minute()
	grid := int(c.tenant.Slot() / time.Minute)
	if local.Second() != 0 || local.Nanosecond() != 0 || minutes%grid != 0 {
		conflicts = append(conflicts, domain.Conflict{
			Reason:  domain.ConflictOffGrid,
			Field:   "start",
			Message: fmt.Sprintf("appointments start every %d minutes", grid),
		})
	}
	day := c.tenant.Hours[local.Weekday()]
	if !day.Contains(minutes, minutes+c.service.DurationMinutes) {
		conflicts = append(conflicts, domain.Conflict{
			Reason:  domain.ConflictOutsideHours,
			Field:   "start",
			Message: fmt.Sprintf("%s hours are %s", local.Weekday(), day),
		})
	}

	for i := range c.existing {
		a := &c.existing[i]
		if a.PetID == c.req.PetID && a.Overlaps(start, end) {
			conflicts = append(conflicts, domain.Conflict{
				Reason:        domain.ConflictPetBusy,
				Field:         "pet_id",
				Message:       "pet already has an appointment at this time",
				AppointmentID: a.ID,
			})
			break
		}
	}

	staffID, staffConflicts := c.assignStaff(start, end)
	slot.StaffID = staffID
	conflicts = append(conflicts, staffConflicts...)

	if c.req.Kind != domain.KindHomeVisit {
		roomID, roomConflicts := c.assignRoom(start, end)
		slot.RoomID = roomID
		conflicts = append(conflicts, roomConflicts...)
	}
	return slot, conflicts
}

func (c *slotCheck) busy(start, end time.Time, match func(*domain.Appointment) bool) string {
	for i := range c.existing {
		a := &c.existing[i]
		if match(a) && a.Overlaps(start, end) {
			return a.ID
		}
	}
	return ""
}

func (c *slotCheck) assignStaff(start, end time.Time) (string, []domain.Conflict) {
	role := c.service.StaffRole
	if c.req.StaffID != "" {
		idx := slices.IndexFunc(c.staff, func(m domain.Staff) bool { return m.ID == c.req.StaffID })
		if idx < 0 || !c.staff[idx].Active {
			return "", []domain.Conflict{{
				Reason:  domain.ConflictStaffUnavailable,
				Field:   "staff_id",
				Message: fmt.Sprintf("staff %s is not available", c.req.StaffID),
			}}
		}
		member := c.staff[idx]
		var conflicts []domain.Conflict
		if role != "" && member.Role != role {
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictStaffRole,
				Field:   "staff_id",
				Message: fmt.Sprintf("%s is a %s, this service needs a %s", member.Name, member.Role, role),
			})
		}
		if id := c.busy(start, end, func(a *domain.Appointment) bool { return a.StaffID == member.ID }); id != "" {
			conflicts = append(conflicts, domain.Conflict{
				Reason:        domain.ConflictStaffBusy,
				Field:         "staff_id",
				Message:       member.Name + " is busy at this time",
				AppointmentID: id,
			})
		}
		return member.ID, conflicts
	}
	if role == "" {
		return "", nil
	}
	for _, m := range c.staff {
		if !m.Active || m.Role != role {
			continue
		}
		if c.busy(start, end, func(a *domain.Appointment) bool { return a.StaffID == m.ID }) == "" {
			return m.ID, nil
		}
	}
	return "", []domain.Conflict{{
		Reason:  domain.ConflictNoStaffFree,
		Field:   "staff_id",
		Message: fmt.Sprintf("no %s is free at this time", role),
	}}
}

func (c *slotCheck) assignRoom(start, end time.Time) (string, []domain.Conflict) {
	kind := c.service.RoomKind
	if c.req.RoomID != "" {
		idx := slices.IndexFunc(c.rooms, func(r domain.Room) bool { return r.ID == c.req.RoomID })
		if idx < 0 || !c.rooms[idx].Active {
			return "", []domain.Conflict{{
				Reason:  domain.ConflictRoomUnavailable,
				Field:   "room_id",
				Message: fmt.Sprintf("room %s is not available", c.req.RoomID),
			}}
		}
		room := c.rooms[idx]
		var conflicts []domain.Conflict
		if kind != "" && room.Kind != kind {
			conflicts = append(conflicts, domain.Conflict{
				Reason:  domain.ConflictRoomKind,
				Field:   "room_id",
				Message: fmt.Sprintf("%s is a %s room, this service needs %s", room.Name, room.Kind, kind),
			})
		}
		if id := c.busy(start, end, func(a *domain.Appointment) bool { return a.RoomID == room.ID }); id != "" {
			conflicts = append(conflicts, domain.Conflict{
				Reason:        domain.ConflictRoomBusy,
				Field:         "room_id",
				Message:       room.Name + " is occupied at this time",
				AppointmentID: id,
			})
		}
		return room.ID, conflicts
	}
	if kind == "" {
		return "", nil
	}
	for _, r := range c.rooms {
		if !r.Active || r.Kind != kind {
			continue
		}
		if c.busy(start, end, func(a *domain.Appointment) bool { return a.RoomID == r.ID }) == "" {
			return r.ID, nil
		}
	}
	return "", []domain.Conflict{{
		Reason:  domain.ConflictNoRoomFree,
		Field:   "room_id",
		Message: fmt.Sprintf("no %s room is free at this time", kind),
	}}
}

// suggest walks the slot grid forward from the requested time and
// collects free slots.
func (c *slotCheck) suggest() []domain.Slot {
	from := c.req.Start
	if from.Before(c.now) {
		from = c.now
	}
	step := c.tenant.Slot()
	cursor := alignUp(from.In(c.loc), step)
	limit := from.Add(suggestionWindow)

	var out []domain.Slot
	for ; cursor.Before(limit) && len(out) < suggestionLimit; cursor = cursor.Add(step) {
		if cursor.Equal(c.req.Start) {
			continue
		}
		if slot, conflicts := c.evaluate(cursor); len(conflicts) == 0 {
			out = append(out, slot)
		}
	}
	return out
}

// alignUp rounds t up to the next multiple of step after local midnight.
func alignUp(t time.Time, step time.Duration) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)
	if rem := offset % step; rem != 0 {
		offset += step - rem
	}
	return midnight.Add(offset)
}

func allResolvable(conflicts []domain.Conflict) bool {
	for _, c := range conflicts {
		if !resolvable[c.Reason] {
			return false
		}
	}
	return true
}

// Book checks availability under the tenant lock and stores the appointment.
func (s *AppointmentService) Book(ctx context.Context, req domain.BookingRequest) (*domain.Appointment, error) {
	unlock := s.lock(req.TenantID)
	defer unlock()

	req.ExcludeID = ""
	av, c, err := s.check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !av.Available {
		return nil, &domain.SlotError{Conflicts: av.Conflicts, Suggestions: av.Suggestions}
	}

	now := s.now().UTC()
	appt := domain.Appointment{
		ID:        newID(),
		TenantID:  req.TenantID,
		ClientID:  req.ClientID,
		PetID:     req.PetID,
		ServiceID: req.ServiceID,
		StaffID:   av.Slot.StaffID,
		RoomID:    av.Slot.RoomID,
		Kind:      c.req.Kind,
		Status:    domain.StatusScheduled,
		Start:     av.Slot.Start,
		End:       av.Slot.End,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if appt.Kind == domain.KindHomeVisit {
		appt.Address = c.req.Address
	}
	if err := s.appts.Save(ctx, appt); err != nil {
		return nil, fmt.Errorf("saving appointment: %w", err)
	}
	logger.Debug("booked %s for tenant %s at %s", appt.ID, appt.TenantID, appt.Start.Format(time.RFC3339))
	return &appt, nil
}

// Reschedule moves an open appointment. Empty staffID or roomID keeps the
// current assignment.
func (s *AppointmentService) Reschedule(
	ctx context.Context,
	tenantID, id string,
	start time.Time,
	staffID, roomID string,
) (*domain.Appointment, error) {
	if s.appts == nil {
		return nil, domain.ErrNotImplemented
	}
	unlock := s.lock(tenantID)
	defer unlock()

	appt, err := s.appts.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != domain.StatusScheduled && appt.Status != domain.StatusConfirmed {
		return nil, fmt.Errorf("cannot reschedule a %s appointment: %w", appt.Status, domain.ErrInvalidTransition)
	}
	if staffID == "" {
		staffID = appt.StaffID
	}
	if roomID == "" {
		roomID = appt.RoomID
	}
	av, _, err := s.check(ctx, domain.BookingRequest{
		TenantID:  tenantID,
		ClientID:  appt.ClientID,
		PetID:     appt.PetID,
		ServiceID: appt.ServiceID,
		StaffID:   staffID,
		RoomID:    roomID,
		Kind:      appt.Kind,
		Start:     start,
		Address:   appt.Address,
		ExcludeID: appt.ID,
	})
	if err != nil {
		return nil, err
	}
	if !av.Available {
		return nil, &domain.SlotError{Conflicts: av.Conflicts, Suggestions: av.Suggestions}
	}

	appt.Start = av.Slot.Start
	appt.End = av.Slot.End
	appt.StaffID = av.Slot.StaffID
	appt.RoomID = av.Slot.RoomID
	appt.UpdatedAt = s.now().UTC()
	if appt.CalendarEventID != "" && s.publisher != nil {
		if err := s.publish(ctx, appt); err != nil {
			logger.Warn("updating calendar event for %s: %v", appt.ID, err)
		}
	}
	if err := s.appts.Save(ctx, *appt); err != nil {
		return nil, fmt.Errorf("saving appointment: %w", err)
	}
	return appt, nil
}

// Transition moves an appointment along its lifecycle.
func (s *AppointmentService) Transition(
	ctx context.Context,
	tenantID, id string,
	status domain.AppointmentStatus,
) (*domain.Appointment, error) {
	if s.appts == nil {
		return nil, domain.ErrNotImplemented
	}
	if !status.IsValid() {
		return nil, domain.Invalid("status", "unknown status %q", status)
	}
	unlock := s.lock(tenantID)
	defer unlock()

	appt, err := s.appts.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransition(status) {
		return nil, fmt.Errorf("%s to %s: %w", appt.Status, status, domain.ErrInvalidTransition)
	}
	appt.Status = status
	appt.UpdatedAt = s.now().UTC()
	if !status.BlocksSlot() {
		s.unpublish(ctx, appt)
	}
	if err := s.appts.Save(ctx, *appt); err != nil {
		return nil, fmt.Errorf("saving appointment: %w", err)
	}
	return appt, nil
}

// Get retrieves an appointment.
func (s *AppointmentService) Get(ctx context.Context, tenantID, id string) (*domain.Appointment, error) {
	if s.appts == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.appts.Get(ctx, tenantID, id)
}

// Day returns every appointment on the given calendar date in the tenant's timezone.
func (s *AppointmentService) Day(ctx context.Context, tenantID string, date time.Time) ([]domain.Appointment, error) {
	if s.appts == nil || s.tenants == nil {
		return nil, domain.ErrNotImplemented
	}
	tenant, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	loc, err := tenant.Location()
	if err != nil {
		return nil, err
	}
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return s.appts.ListRange(ctx, tenantID, start, start.AddDate(0, 0, 1))
}

// Range returns appointments overlapping [from, to).
func (s *AppointmentService) Range(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Appointment, error) {
	if s.appts == nil {
		return nil, domain.ErrNotImplemented
	}
	if !to.After(from) {
		return nil, domain.Invalid("to", "must be after from")
	}
	return s.appts.ListRange(ctx, tenantID, from, to)
}

// SweepNoShows marks appointments that ended more than NoShowGrace ago
// without being started.
func (s *AppointmentService) SweepNoShows(ctx context.Context, now time.Time) (int, error) {
	if s.appts == nil {
		return 0, domain.ErrNotImplemented
	}
	overdue, err := s.appts.ListOverdue(ctx, now.Add(-domain.NoShowGrace))
	if err != nil {
		return 0, fmt.Errorf("listing overdue appointments: %w", err)
	}
	var errs []error
	swept := 0
	for i := range overdue {
		appt := overdue[i]
		if !appt.Status.CanTransition(domain.StatusNoShow) {
			continue
		}
		appt.Status = domain.StatusNoShow
		appt.UpdatedAt = now.UTC()
		s.unpublish(ctx, &appt)
		if err := s.appts.Save(ctx, appt); err != nil {
			errs = append(errs, fmt.Errorf("appointment %s: %w", appt.ID, err))
			continue
		}
		swept++
	}
	return swept, errors.Join(errs...)
}

// PublishPending mirrors up to limit unpublished upcoming appointments to
// the calendar. It stops at the first publish failure.
func (s *AppointmentService) PublishPending(ctx context.Context, limit int) (int, error) {
	if s.publisher == nil {
		return 0, nil
	}
	if s.appts == nil {
		return 0, domain.ErrNotImplemented
	}
	pending, err := s.appts.ListUnpublished(ctx, s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("listing unpublished appointments: %w", err)
	}
	published := 0
	for i := range pending {
		appt := pending[i]
		if err := s.publish(ctx, &appt); err != nil {
			return published, fmt.Errorf("publishing %s: %w", appt.ID, err)
		}
		if err := s.appts.Save(ctx, appt); err != nil {
			return published, fmt.Errorf("saving appointment %s: %w", appt.ID, err)
		}
		published++
	}
	return published, nil
}

// publish creates or updates the calendar event and records its ID on appt.
func (s *AppointmentService) publish(ctx context.Context, appt *domain.Appointment) error {
	event, err := s.calendarEvent(ctx, appt)
	if err != nil {
		return err
	}
	id, err := s.publisher.Publish(ctx, event)
	if err != nil {
		return err
	}
	appt.CalendarEventID = id
	return nil
}

// unpublish removes the calendar event, keeping the ID if removal fails
// so a later attempt can retry.
func (s *AppointmentService) unpublish(ctx context.Context, appt *domain.Appointment) {
	if appt.CalendarEventID == "" || s.publisher == nil {
		return
	}
	if err := s.publisher.Delete(ctx, appt.CalendarEventID); err != nil {
		logger.Warn("removing calendar event %s: %v", appt.CalendarEventID, err)
		return
	}
	appt.CalendarEventID = ""
}

func (s *AppointmentService) calendarEvent(ctx context.Context, appt *domain.Appointment) (driven.CalendarEvent, error) {
	event := driven.CalendarEvent{
		ID:    appt.CalendarEventID,
		Start: appt.Start,
		End:   appt.End,
	}
	tenant, err := s.tenants.Get(ctx, appt.TenantID)
	if err != nil {
		return event, fmt.Errorf("tenant %q: %w", appt.TenantID, err)
	}
	event.Timezone = tenant.Timezone
	if event.Timezone == "" {
		event.Timezone = domain.DefaultTimezone
	}

	serviceName, petName, clientName := appt.ServiceID, appt.PetID, appt.ClientID
	if s.services != nil {
		if svc, err := s.services.Get(ctx, appt.TenantID, appt.ServiceID); err == nil {
			serviceName = svc.Name
		}
	}
	if s.pets != nil {
		if pet, err := s.pets.Get(ctx, appt.TenantID, appt.PetID); err == nil {
			petName = pet.Name
		}
	}
	if s.clients != nil {
		if client, err := s.clients.Get(ctx, appt.TenantID, appt.ClientID); err == nil {
			clientName = client.FullName()
		}
	}
	event.Summary = fmt.Sprintf("%s: %s (%s)", serviceName, petName, clientName)

	var desc []string
	if appt.StaffID != "" && s.staff != nil {
		if member, err := s.staff.Get(ctx, appt.TenantID, appt.StaffID); err == nil {
			desc = append(desc, "Staff: "+member.Name)
		}
	}
	if appt.Notes != "" {
		desc = append(desc, appt.Notes)
	}
	event.Description = strings.Join(desc, "\n")

	if appt.Kind == domain.KindHomeVisit {
		event.Location = appt.Address.Line()
	} else {
		event.Location = tenant.Name
		if !tenant.Address.IsZero() {
			event.Location += ", " + tenant.Address.Line()
		}
	}
	return event, nil
}
