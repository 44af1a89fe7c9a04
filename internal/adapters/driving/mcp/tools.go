package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

const (
	dateLayout        = "2006-01-02"
	defaultPostalHits = 10
)

// localLayouts are accepted for start times without an offset; they are read
// in the clinic's timezone.
var localLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04"}

// SlotInput is the input schema shared by check_availability and book_appointment.
type SlotInput struct {
	Tenant    string        `json:"tenant" jsonschema:"clinic slug or ID"`
	ClientID  string        `json:"client_id" jsonschema:"client who owns the pet"`
	PetID     string        `json:"pet_id" jsonschema:"pet being seen"`
	ServiceID string        `json:"service_id" jsonschema:"service from the clinic catalog"`
	Start     string        `json:"start" jsonschema:"start time, RFC 3339 or YYYY-MM-DDTHH:MM in clinic local time"`
	StaffID   string        `json:"staff_id,omitempty" jsonschema:"preferred staff member; assigned automatically when empty"`
	RoomID    string        `json:"room_id,omitempty" jsonschema:"preferred room; assigned automatically when empty"`
	HomeVisit bool          `json:"home_visit,omitempty" jsonschema:"book a home visit instead of an in-clinic appointment"`
	Address   *AddressInput `json:"address,omitempty" jsonschema:"where a home visit takes place"`
	Notes     string        `json:"notes,omitempty" jsonschema:"free-form notes for the appointment"`
}

// AddressInput is a Mexican street address.
type AddressInput struct {
	Street     string `json:"street"`
	ExtNumber  string `json:"ext_number,omitempty"`
	IntNumber  string `json:"int_number,omitempty"`
	Colonia    string `json:"colonia,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	References string `json:"references,omitempty"`
}

// SlotOutput describes one bookable slot.
type SlotOutput struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	StaffID string `json:"staff_id,omitempty"`
	RoomID  string `json:"room_id,omitempty"`
}

// ConflictOutput is one reason a slot cannot be booked.
type ConflictOutput struct {
	Reason        string `json:"reason"`
	Field         string `json:"field,omitempty"`
	Message       string `json:"message"`
	AppointmentID string `json:"appointment_id,omitempty"`
}

// AvailabilityOutput is the output schema for check_availability.
type AvailabilityOutput struct {
	Available   bool             `json:"available"`
	Slot        *SlotOutput      `json:"slot,omitempty"`
	Conflicts   []ConflictOutput `json:"conflicts"`
	Suggestions []SlotOutput     `json:"suggestions"`
}

// AppointmentOutput is a booked appointment.
type AppointmentOutput struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	PetID     string `json:"pet_id"`
	ServiceID string `json:"service_id"`
	StaffID   string `json:"staff_id,omitempty"`
	RoomID    string `json:"room_id,omitempty"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Notes     string `json:"notes,omitempty"`
}

// BookOutput is the output schema for book_appointment. When the slot is
// taken, Booked is false and the conflicts explain why.
type BookOutput struct {
	Booked      bool               `json:"booked"`
	Appointment *AppointmentOutput `json:"appointment,omitempty"`
	Conflicts   []ConflictOutput   `json:"conflicts"`
	Suggestions []SlotOutput       `json:"suggestions"`
}

// AgendaInput is the input schema for day_agenda.
type AgendaInput struct {
	Tenant string `json:"tenant" jsonschema:"clinic slug or ID"`
	Date   string `json:"date,omitempty" jsonschema:"day as YYYY-MM-DD (default today in clinic time)"`
}

// AgendaOutput is the output schema for day_agenda.
type AgendaOutput struct {
	Date         string              `json:"date"`
	Appointments []AppointmentOutput `json:"appointments"`
	Count        int                 `json:"count"`
}

// PostalInput is the input schema for lookup_postal_code.
type PostalInput struct {
	Code  string `json:"code,omitempty" jsonschema:"five-digit postal code"`
	Query string `json:"query,omitempty" jsonschema:"colonia or municipality name, used when code is empty"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results for name searches (default 10)"`
}

// ColoniaOutput is one SEPOMEX settlement.
type ColoniaOutput struct {
	Code           string `json:"code"`
	Colonia        string `json:"colonia"`
	SettlementType string `json:"settlement_type,omitempty"`
	Municipality   string `json:"municipality"`
	State          string `json:"state"`
	City           string `json:"city,omitempty"`
}

// PostalOutput is the output schema for lookup_postal_code.
type PostalOutput struct {
	Results []ColoniaOutput `json:"results"`
	Count   int             `json:"count"`
}

// registerTools adds the booking tools, and lookup_postal_code when a
// postal service is wired.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_availability",
		Description: "Check whether a clinic slot can be booked and suggest nearby free slots",
	}, s.handleCheckAvailability)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "book_appointment",
		Description: "Book an appointment for a pet, assigning free staff and room when not given",
	}, s.handleBookAppointment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "day_agenda",
		Description: "List a clinic's appointments for one day",
	}, s.handleDayAgenda)

	if s.ports.Postal != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "lookup_postal_code",
			Description: "Find Mexican colonias by postal code or by name",
		}, s.handleLookupPostalCode)
	}
}

func (s *Server) handleCheckAvailability(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SlotInput,
) (*mcp.CallToolResult, AvailabilityOutput, error) {
	tenant, loc, err := s.tenant(ctx, input.Tenant)
	if err != nil {
		return nil, AvailabilityOutput{}, err
	}
	req, err := bookingRequest(tenant, loc, input)
	if err != nil {
		return nil, AvailabilityOutput{}, err
	}

	avail, err := s.ports.Appointments.CheckAvailability(ctx, req)
	if err != nil {
		return nil, AvailabilityOutput{}, err
	}

	output := AvailabilityOutput{
		Available:   avail.Available,
		Conflicts:   conflictsOutput(avail.Conflicts),
		Suggestions: slotsOutput(avail.Suggestions, loc),
	}
	if avail.Available {
		slot := slotOutput(avail.Slot, loc)
		output.Slot = &slot
	}
	return nil, output, nil
}

func (s *Server) handleBookAppointment(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SlotInput,
) (*mcp.CallToolResult, BookOutput, error) {
	tenant, loc, err := s.tenant(ctx, input.Tenant)
	if err != nil {
		return nil, BookOutput{}, err
	}
	req, err := bookingRequest(tenant, loc, input)
	if err != nil {
		return nil, BookOutput{}, err
	}

	appt, err := s.ports.Appointments.Book(ctx, req)
	var slotErr *domain.SlotError
	if errors.As(err, &slotErr) {
		return nil, BookOutput{
			Conflicts:   conflictsOutput(slotErr.Conflicts),
			Suggestions: slotsOutput(slotErr.Suggestions, loc),
		}, nil
	}
	if err != nil {
		return nil, BookOutput{}, err
	}

	s.log.Infow("appointment booked", "tenant", tenant.Slug, "appointment", appt.ID)
	out := appointmentOutput(*appt, loc)
	return nil, BookOutput{
		Booked:      true,
		Appointment: &out,
		Conflicts:   []ConflictOutput{},
		Suggestions: []SlotOutput{},
	}, nil
}

func (s *Server) handleDayAgenda(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AgendaInput,
) (*mcp.CallToolResult, AgendaOutput, error) {
	tenant, loc, err := s.tenant(ctx, input.Tenant)
	if err != nil {
		return nil, AgendaOutput{}, err
	}

	day := s.now().In(loc)
	if input.Date != "" {
		day, err = time.ParseInLocation(dateLayout, input.Date, loc)
		if err != nil {
			return nil, AgendaOutput{}, domain.Invalid("date", "expected YYYY-MM-DD")
		}
	}

	appts, err := s.ports.Appointments.Day(ctx, tenant.ID, day)
	if err != nil {
		return nil, AgendaOutput{}, err
	}

	output := AgendaOutput{
		Date:         day.Format(dateLayout),
		Appointments: make([]AppointmentOutput, len(appts)),
		Count:        len(appts),
	}
	for i := range appts {
		output.Appointments[i] = appointmentOutput(appts[i], loc)
	}
	return nil, output, nil
}

func (s *Server) handleLookupPostalCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PostalInput,
) (*mcp.CallToolResult, PostalOutput, error) {
	if s.ports.Postal == nil {
		return nil, PostalOutput{}, fmt.Errorf("postal lookup: %w", domain.ErrNotImplemented)
	}

	var (
		entries []domain.PostalCode
		err     error
	)
	switch {
	case input.Code != "":
		entries, err = s.ports.Postal.Lookup(ctx, input.Code)
	case input.Query != "":
		limit := input.Limit
		if limit <= 0 {
			limit = defaultPostalHits
		}
		entries, err = s.ports.Postal.Search(ctx, input.Query, limit)
	default:
		return nil, PostalOutput{}, domain.Invalid("code", "code or query is required")
	}
	if err != nil {
		return nil, PostalOutput{}, err
	}

	output := PostalOutput{
		Results: make([]ColoniaOutput, len(entries)),
		Count:   len(entries),
	}
	for i, e := range entries {
		output.Results[i] = ColoniaOutput{
			Code:           e.Code,
			Colonia:        e.Colonia,
			SettlementType: e.SettlementType,
			Municipality:   e.Municipality,
			State:          e.State,
			City:           e.City,
		}
	}
	return nil, output, nil
}

// tenant resolves a slug or ID and loads the clinic's timezone.
func (s *Server) tenant(ctx context.Context, ref string) (*domain.Tenant, *time.Location, error) {
	if ref == "" {
		return nil, nil, domain.Invalid("tenant", "required")
	}
	tenant, err := s.ports.Tenants.Resolve(ctx, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving tenant %q: %w", ref, err)
	}
	loc, err := tenant.Location()
	if err != nil {
		return nil, nil, err
	}
	return tenant, loc, nil
}

func bookingRequest(tenant *domain.Tenant, loc *time.Location, input SlotInput) (domain.BookingRequest, error) {
	start, err := parseStart(input.Start, loc)
	if err != nil {
		return domain.BookingRequest{}, err
	}
	kind := domain.KindClinic
	if input.HomeVisit {
		kind = domain.KindHomeVisit
	}
	var addr domain.Address
	if input.Address != nil {
		addr = domain.Address(*input.Address)
	}
	return domain.BookingRequest{
		TenantID:  tenant.ID,
		ClientID:  input.ClientID,
		PetID:     input.PetID,
		ServiceID: input.ServiceID,
		StaffID:   input.StaffID,
		RoomID:    input.RoomID,
		Kind:      kind,
		Start:     start,
		Address:   addr,
		Notes:     input.Notes,
	}, nil
}

func parseStart(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, domain.Invalid("start", "required")
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.Invalid("start", "expected RFC 3339 or YYYY-MM-DDTHH:MM, got %q", v)
}

func slotOutput(slot domain.Slot, loc *time.Location) SlotOutput {
	return SlotOutput{
		Start:   slot.Start.In(loc).Format(time.RFC3339),
		End:     slot.End.In(loc).Format(time.RFC3339),
		StaffID: slot.StaffID,
		RoomID:  slot.RoomID,
	}
}

func slotsOutput(slots []domain.Slot, loc *time.Location) []SlotOutput {
	out := make([]SlotOutput, len(slots))
	for i, slot := range slots {
		out[i] = slotOutput(slot, loc)
	}
	return out
}

func conflictsOutput(conflicts []domain.Conflict) []ConflictOutput {
	out := make([]ConflictOutput, len(conflicts))
	for i, c := range conflicts {
		out[i] = ConflictOutput{
			Reason:        string(c.Reason),
			Field:         c.Field,
			Message:       c.Message,
			AppointmentID: c.AppointmentID,
		}
	}
	return out
}

func appointmentOutput(a domain.Appointment, loc *time.Location) AppointmentOutput {
	return AppointmentOutput{
		ID:        a.ID,
		ClientID:  a.ClientID,
		PetID:     a.PetID,
		ServiceID: a.ServiceID,
		StaffID:   a.StaffID,
		RoomID:    a.RoomID,
		Kind:      string(a.Kind),
		Status:    string(a.Status),
		Start:     a.Start.In(loc).Format(time.RFC3339),
		End:       a.End.In(loc).Format(time.RFC3339),
		Notes:     a.Notes,
	}
}
