package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// The flat JSON types below mirror their domain structs field for field so
// they convert directly, e.g. domain.Staff(staffJSON{...}).

type addressJSON struct {
	Street     string `json:"street,omitempty"`
	ExtNumber  string `json:"ext_number,omitempty"`
	IntNumber  string `json:"int_number,omitempty"`
	Colonia    string `json:"colonia,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	References string `json:"references,omitempty"`
}

type companyJSON struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	TaxID     string      `json:"tax_id,omitempty"`
	Plan      domain.Plan `json:"plan"`
	CreatedAt time.Time   `json:"created_at,omitzero"`
	UpdatedAt time.Time   `json:"updated_at,omitzero"`
}

type staffJSON struct {
	ID        string      `json:"id"`
	TenantID  string      `json:"tenant_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at,omitzero"`
	UpdatedAt time.Time   `json:"updated_at,omitzero"`
}

type roomJSON struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Name      string          `json:"name"`
	Kind      domain.RoomKind `json:"kind"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at,omitzero"`
	UpdatedAt time.Time       `json:"updated_at,omitzero"`
}

type serviceJSON struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	Name            string          `json:"name"`
	Category        string          `json:"category,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
	PriceCents      int64           `json:"price_cents"`
	StaffRole       domain.Role     `json:"staff_role,omitempty"`
	RoomKind        domain.RoomKind `json:"room_kind,omitempty"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at,omitzero"`
	UpdatedAt       time.Time       `json:"updated_at,omitzero"`
}

type petJSON struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenant_id"`
	ClientID  string         `json:"client_id"`
	Name      string         `json:"name"`
	Species   domain.Species `json:"species"`
	Breed     string         `json:"breed,omitempty"`
	Sex       string         `json:"sex,omitempty"`
	BirthDate time.Time      `json:"birth_date,omitzero"`
	WeightKg  float64        `json:"weight_kg,omitempty"`
	Neutered  bool           `json:"neutered"`
	Notes     string         `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitzero"`
	UpdatedAt time.Time      `json:"updated_at,omitzero"`
}

type inventoryItemJSON struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	Unit       string    `json:"unit,omitempty"`
	Quantity   float64   `json:"quantity"`
	MinStock   float64   `json:"min_stock"`
	CostCents  int64     `json:"cost_cents"`
	PriceCents int64     `json:"price_cents"`
	Supplier   string    `json:"supplier,omitempty"`
	Lot        string    `json:"lot,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitzero"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

type receiptTemplateJSON struct {
	ID               string           `json:"id"`
	TenantID         string           `json:"tenant_id"`
	Name             string           `json:"name"`
	PaperSize        domain.PaperSize `json:"paper_size"`
	BusinessName     string           `json:"business_name,omitempty"`
	LogoURL          string           `json:"logo_url,omitempty"`
	Address          string           `json:"address,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	TaxID            string           `json:"tax_id,omitempty"`
	HeaderNote       string           `json:"header_note,omitempty"`
	FooterMarkdown   string           `json:"footer_markdown,omitempty"`
	AccentColor      string           `json:"accent_color,omitempty"`
	ShowPetName      bool             `json:"show_pet_name"`
	ShowStaffName    bool             `json:"show_staff_name"`
	ShowTaxBreakdown bool             `json:"show_tax_breakdown"`
	IsDefault        bool             `json:"is_default"`
	CreatedAt        time.Time        `json:"created_at,omitzero"`
	UpdatedAt        time.Time        `json:"updated_at,omitzero"`
}

type receiptLineJSON struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
}

type postalCodeJSON struct {
	Code           string `json:"code"`
	Colonia        string `json:"colonia"`
	SettlementType string `json:"settlement_type,omitempty"`
	Municipality   string `json:"municipality"`
	State          string `json:"state"`
	City           string `json:"city,omitempty"`
	SearchKey      string `json:"-"`
}

type rowErrorJSON struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type conflictJSON struct {
	Reason        domain.ConflictReason `json:"reason"`
	Field         string                `json:"field,omitempty"`
	Message       string                `json:"message"`
	AppointmentID string                `json:"appointment_id,omitempty"`
}

type slotJSON struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	StaffID string    `json:"staff_id,omitempty"`
	RoomID  string    `json:"room_id,omitempty"`
}

// Nested types need explicit mapping.

type tenantJSON struct {
	ID          string            `json:"id"`
	CompanyID   string            `json:"company_id"`
	Slug        string            `json:"slug"`
	Name        string            `json:"name"`
	Timezone    string            `json:"timezone,omitempty"`
	SlotMinutes int               `json:"slot_minutes,omitempty"`
	Hours       map[string]string `json:"hours,omitempty"`
	Address     addressJSON       `json:"address,omitzero"`
	Phone       string            `json:"phone,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitzero"`
	UpdatedAt   time.Time         `json:"updated_at,omitzero"`
}

func tenantFromDomain(t domain.Tenant) tenantJSON {
	out := tenantJSON{
		ID: t.ID, CompanyID: t.CompanyID, Slug: t.Slug, Name: t.Name,
		Timezone: t.Timezone, SlotMinutes: t.SlotMinutes,
		Address: addressJSON(t.Address), Phone: t.Phone,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
	if !t.Hours.IsZero() {
		out.Hours = make(map[string]string, len(t.Hours))
		for d, h := range t.Hours {
			out.Hours[strings.ToLower(time.Weekday(d).String())] = h.String()
		}
	}
	return out
}

func (t tenantJSON) toDomain() (domain.Tenant, error) {
	out := domain.Tenant{
		ID: t.ID, CompanyID: t.CompanyID, Slug: t.Slug, Name: t.Name,
		Timezone: t.Timezone, SlotMinutes: t.SlotMinutes,
		Address: domain.Address(t.Address), Phone: t.Phone,
	}
	for day, spec := range t.Hours {
		d, ok := parseWeekday(day)
		if !ok {
			return out, domain.Invalid("hours", "unknown weekday %q", day)
		}
		h, err := domain.ParseDayHours(spec)
		if err != nil {
			return out, domain.Invalid("hours", "%s: %v", day, err)
		}
		out.Hours[d] = h
	}
	return out, nil
}

type clientJSON struct {
	ID        string      `json:"id"`
	TenantID  string      `json:"tenant_id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name,omitempty"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Address   addressJSON `json:"address,omitzero"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitzero"`
	UpdatedAt time.Time   `json:"updated_at,omitzero"`

	// Pets is accepted on create for a combined intake and returned from it.
	Pets []petJSON `json:"pets,omitempty"`
}

func clientFromDomain(c domain.Client) clientJSON {
	return clientJSON{
		ID: c.ID, TenantID: c.TenantID, FirstName: c.FirstName, LastName: c.LastName,
		Email: c.Email, Phone: c.Phone, Address: addressJSON(c.Address), Notes: c.Notes,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (c clientJSON) toDomain() domain.Client {
	return domain.Client{
		ID: c.ID, TenantID: c.TenantID, FirstName: c.FirstName, LastName: c.LastName,
		Email: c.Email, Phone: c.Phone, Address: domain.Address(c.Address), Notes: c.Notes,
	}
}

type appointmentJSON struct {
	ID              string                   `json:"id"`
	TenantID        string                   `json:"tenant_id"`
	ClientID        string                   `json:"client_id"`
	PetID           string                   `json:"pet_id"`
	ServiceID       string                   `json:"service_id"`
	StaffID         string                   `json:"staff_id,omitempty"`
	RoomID          string                   `json:"room_id,omitempty"`
	Kind            domain.AppointmentKind   `json:"kind"`
	Status          domain.AppointmentStatus `json:"status"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	Address         addressJSON              `json:"address,omitzero"`
	Notes           string                   `json:"notes,omitempty"`
	CalendarEventID string                   `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time                `json:"created_at,omitzero"`
	UpdatedAt       time.Time                `json:"updated_at,omitzero"`
}

func appointmentFromDomain(a domain.Appointment) appointmentJSON {
	return appointmentJSON{
		ID: a.ID, TenantID: a.TenantID, ClientID: a.ClientID, PetID: a.PetID,
		ServiceID: a.ServiceID, StaffID: a.StaffID, RoomID: a.RoomID,
		Kind: a.Kind, Status: a.Status, Start: a.Start, End: a.End,
		Address: addressJSON(a.Address), Notes: a.Notes, CalendarEventID: a.CalendarEventID,
		CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

type bookingRequestJSON struct {
	ClientID  string                 `json:"client_id"`
	PetID     string                 `json:"pet_id"`
	ServiceID string                 `json:"service_id"`
	StaffID   string                 `json:"staff_id,omitempty"`
	RoomID    string                 `json:"room_id,omitempty"`
	Kind      domain.AppointmentKind `json:"kind,omitempty"`
	Start     time.Time              `json:"start"`
	Address   addressJSON            `json:"address,omitzero"`
	Notes     string                 `json:"notes,omitempty"`
}

func (b bookingRequestJSON) toDomain(tenantID string) domain.BookingRequest {
	return domain.BookingRequest{
		TenantID: tenantID, ClientID: b.ClientID, PetID: b.PetID, ServiceID: b.ServiceID,
		StaffID: b.StaffID, RoomID: b.RoomID, Kind: b.Kind, Start: b.Start,
		Address: domain.Address(b.Address), Notes: b.Notes,
	}
}

type availabilityJSON struct {
	Available   bool           `json:"available"`
	Slot        slotJSON       `json:"slot"`
	Conflicts   []conflictJSON `json:"conflicts"`
	Suggestions []slotJSON     `json:"suggestions"`
}

func availabilityFromDomain(a domain.Availability) availabilityJSON {
	out := availabilityJSON{
		Available:   a.Available,
		Slot:        slotJSON(a.Slot),
		Conflicts:   make([]conflictJSON, 0, len(a.Conflicts)),
		Suggestions: make([]slotJSON, 0, len(a.Suggestions)),
	}
	for _, c := range a.Conflicts {
		out.Conflicts = append(out.Conflicts, conflictJSON(c))
	}
	for _, s := range a.Suggestions {
		out.Suggestions = append(out.Suggestions, slotJSON(s))
	}
	return out
}

type importReportJSON struct {
	BatchID   string            `json:"batch_id"`
	TenantID  string            `json:"tenant_id"`
	Parser    string            `json:"parser"`
	Source    string            `json:"source"`
	Mode      domain.ImportMode `json:"mode"`
	DryRun    bool              `json:"dry_run"`
	Created   int               `json:"created"`
	Updated   int               `json:"updated"`
	Skipped   int               `json:"skipped"`
	Errors    []rowErrorJSON    `json:"errors"`
	StartedAt time.Time         `json:"started_at,omitzero"`
	EndedAt   time.Time         `json:"ended_at,omitzero"`
}

func importReportFromDomain(r domain.ImportReport) importReportJSON {
	out := importReportJSON{
		BatchID: r.BatchID, TenantID: r.TenantID, Parser: r.Parser, Source: r.Source,
		Mode: r.Mode, DryRun: r.DryRun, Created: r.Created, Updated: r.Updated,
		Skipped: r.Skipped, Errors: make([]rowErrorJSON, 0, len(r.Errors)),
		StartedAt: r.StartedAt, EndedAt: r.EndedAt,
	}
	for _, e := range r.Errors {
		out.Errors = append(out.Errors, rowErrorJSON(e))
	}
	return out
}

type receiptJSON struct {
	Folio          string            `json:"folio"`
	IssuedAt       time.Time         `json:"issued_at"`
	ClientName     string            `json:"client_name"`
	PetName        string            `json:"pet_name,omitempty"`
	StaffName      string            `json:"staff_name,omitempty"`
	Lines          []receiptLineJSON `json:"lines"`
	TaxBasisPoints int               `json:"tax_basis_points"`
	PaymentMethod  string            `json:"payment_method,omitempty"`
}

func (r receiptJSON) toDomain() domain.Receipt {
	out := domain.Receipt{
		Folio: r.Folio, IssuedAt: r.IssuedAt, ClientName: r.ClientName,
		PetName: r.PetName, StaffName: r.StaffName,
		TaxBasisPoints: r.TaxBasisPoints, PaymentMethod: r.PaymentMethod,
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, domain.ReceiptLine(l))
	}
	return out
}

type routeStopJSON struct {
	Sequence    int         `json:"sequence"`
	ClientID    string      `json:"client_id"`
	Address     addressJSON `json:"address,omitzero"`
	WindowStart string      `json:"window_start,omitempty"`
	WindowEnd   string      `json:"window_end,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

type routeJSON struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Name      string          `json:"name"`
	Weekday   string          `json:"weekday"`
	DriverID  string          `json:"driver_id,omitempty"`
	Stops     []routeStopJSON `json:"stops"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitzero"`
	UpdatedAt time.Time       `json:"updated_at,omitzero"`
}

func routeFromDomain(r domain.DeliveryRoute) routeJSON {
	out := routeJSON{
		ID: r.ID, TenantID: r.TenantID, Name: r.Name,
		Weekday:  strings.ToLower(r.Weekday.String()),
		DriverID: r.DriverID, Notes: r.Notes,
		Stops:     make([]routeStopJSON, 0, len(r.Stops)),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	for _, s := range r.Stops {
		stop := routeStopJSON{
			Sequence: s.Sequence, ClientID: s.ClientID,
			Address: addressJSON(s.Address), Notes: s.Notes,
		}
		if s.HasWindow() {
			stop.WindowStart = domain.FormatClock(s.WindowStart)
			stop.WindowEnd = domain.FormatClock(s.WindowEnd)
		}
		out.Stops = append(out.Stops, stop)
	}
	return out
}

func (r routeJSON) toDomain() (domain.DeliveryRoute, error) {
	weekday, ok := parseWeekday(r.Weekday)
	if !ok {
		return domain.DeliveryRoute{}, domain.Invalid("weekday", "unknown weekday %q", r.Weekday)
	}
	out := domain.DeliveryRoute{
		ID: r.ID, TenantID: r.TenantID, Name: r.Name, Weekday: weekday,
		DriverID: r.DriverID, Notes: r.Notes,
	}
	for i, s := range r.Stops {
		stop := domain.RouteStop{
			Sequence: s.Sequence, ClientID: s.ClientID,
			Address: domain.Address(s.Address), Notes: s.Notes,
		}
		var err error
		if s.WindowStart != "" {
			if stop.WindowStart, err = domain.ParseClock(s.WindowStart); err != nil {
				return out, domain.Invalid(fmt.Sprintf("stops[%d].window_start", i), "%v", err)
			}
		}
		if s.WindowEnd != "" {
			if stop.WindowEnd, err = domain.ParseClock(s.WindowEnd); err != nil {
				return out, domain.Invalid(fmt.Sprintf("stops[%d].window_end", i), "%v", err)
			}
		}
		out.Stops = append(out.Stops, stop)
	}
	return out, nil
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "domingo": time.Sunday,
	"monday": time.Monday, "lunes": time.Monday,
	"tuesday": time.Tuesday, "martes": time.Tuesday,
	"wednesday": time.Wednesday, "miercoles": time.Wednesday, "miércoles": time.Wednesday,
	"thursday": time.Thursday, "jueves": time.Thursday,
	"friday": time.Friday, "viernes": time.Friday,
	"saturday": time.Saturday, "sabado": time.Saturday, "sábado": time.Saturday,
}

// parseWeekday accepts English or Spanish day names, or 0-6 with Sunday as 0.
func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return time.Weekday(s[0] - '0'), true
	}
	d, ok := weekdays[s]
	return d, ok
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
