package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	// Tenant timezones must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

// Tenant defaults.
const (
	// DefaultTimezone is used when a tenant does not set one.
	DefaultTimezone = "America/Mexico_City"

	// DefaultSlotMinutes is the default booking grid.
	DefaultSlotMinutes = 30

	// MinutesPerDay bounds every clock value.
	MinutesPerDay = 24 * 60
)

// Plan identifies a company's subscription tier.
type Plan string

// Available plans.
const (
	PlanFree       Plan = "free"
	PlanClinic     Plan = "clinic"
	PlanEnterprise Plan = "enterprise"
)

// IsValid returns true if the plan is recognised.
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanClinic, PlanEnterprise:
		return true
	default:
		return false
	}
}

// MaxStaff returns the number of active staff a tenant may have.
// Zero means unlimited.
func (p Plan) MaxStaff() int {
	switch p {
	case PlanFree:
		return 3
	case PlanClinic:
		return 25
	default:
		return 0
	}
}

// MaxTenants returns the number of tenants a company may operate.
// Zero means unlimited.
func (p Plan) MaxTenants() int {
	switch p {
	case PlanFree:
		return 1
	case PlanClinic:
		return 3
	default:
		return 0
	}
}

// String returns the string representation.
func (p Plan) String() string {
	return string(p)
}

// Company is the organisational owner of one or more tenants.
// Billing and plan limits apply at this level.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Plan      Plan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayHours holds opening and closing times in minutes since midnight.
// A day whose Close is not after Open is closed.
type DayHours struct {
	Open  int
	Close int
}

// IsOpen reports whether the clinic opens at all on this day.
func (d DayHours) IsOpen() bool {
	return d.Close > d.Open
}

// Contains reports whether [start, end) lies within opening hours.
func (d DayHours) Contains(start, end int) bool {
	return d.IsOpen() && start >= d.Open && end <= d.Close
}

// String formats the hours as "09:00-19:00", or "closed".
func (d DayHours) String() string {
	if !d.IsOpen() {
		return "closed"
	}
	return FormatClock(d.Open) + "-" + FormatClock(d.Close)
}

// ParseDayHours parses "09:00-19:00" or "closed".
func ParseDayHours(s string) (DayHours, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "closed" || s == "cerrado" {
		return DayHours{}, nil
	}
	open, closing, ok := strings.Cut(s, "-")
	if !ok {
		return DayHours{}, fmt.Errorf("hours %q: expected HH:MM-HH:MM: %w", s, ErrInvalidInput)
	}
	o, err := ParseClock(open)
	if err != nil {
		return DayHours{}, err
	}
	c, err := ParseClock(closing)
	if err != nil {
		return DayHours{}, err
	}
	return DayHours{Open: o, Close: c}, nil
}

// BusinessHours holds opening hours indexed by time.Weekday.
type BusinessHours [7]DayHours

// DefaultBusinessHours returns Monday to Friday 09:00-19:00,
// Saturday 09:00-14:00 and Sunday closed.
func DefaultBusinessHours() BusinessHours {
	var h BusinessHours
	for d := time.Monday; d <= time.Friday; d++ {
		h[d] = DayHours{Open: 9 * 60, Close: 19 * 60}
	}
	h[time.Saturday] = DayHours{Open: 9 * 60, Close: 14 * 60}
	return h
}

// Validate checks every day is either closed or a coherent range.
func (h BusinessHours) Validate() error {
	for d, day := range h {
		if day.Open == 0 && day.Close == 0 {
			continue
		}
		if day.Open < 0 || day.Close > MinutesPerDay || day.Open >= day.Close {
			return Invalid("hours", "%s: invalid range %d-%d", time.Weekday(d), day.Open, day.Close)
		}
	}
	return nil
}

// IsZero reports whether no day is open.
func (h BusinessHours) IsZero() bool {
	for _, day := range h {
		if day.IsOpen() {
			return false
		}
	}
	return true
}

// Tenant is a single veterinary clinic or site within a company.
type Tenant struct {
	ID        string
	CompanyID string

	// Slug is the URL-safe identifier used in API paths and drop folders.
	Slug string

	Name string

	// Timezone is an IANA zone name; business hours are local to it.
	Timezone string

	// SlotMinutes is the booking grid; appointments start on multiples of it.
	SlotMinutes int

	Hours   BusinessHours
	Address Address
	Phone   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location loads the tenant's timezone, falling back to DefaultTimezone.
func (t *Tenant) Location() (*time.Location, error) {
	name := t.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

// Slot returns the tenant's slot length, falling back to DefaultSlotMinutes.
func (t *Tenant) Slot() time.Duration {
	if t.SlotMinutes <= 0 {
		return DefaultSlotMinutes * time.Minute
	}
	return time.Duration(t.SlotMinutes) * time.Minute
}

// ValidSlotMinutes reports whether n is an allowed booking grid.
func ValidSlotMinutes(n int) bool {
	switch n {
	case 5, 10, 15, 20, 30, 60:
		return true
	default:
		return false
	}
}

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" is allowed.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: expected HH:MM: %w", s, ErrInvalidInput)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, ErrInvalidInput)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || h < 0 {
		return 0, fmt.Errorf("clock %q: %w", s, ErrInvalidInput)
	}
	total := h*60 + m
	if total > MinutesPerDay {
		return 0, fmt.Errorf("clock %q: past midnight: %w", s, ErrInvalidInput)
	}
	return total, nil
}

// FormatClock formats minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
