// Package messages holds the tea.Msg types exchanged between the app and
// its views. Views never call each other; they return commands that
// produce these.
package messages

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// Send wraps msg in a command that yields it unchanged.
func Send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

type ViewType int

const (
	ViewClinics ViewType = iota // clinic picker
	ViewAgenda                  // one clinic's day
	ViewHelp                    // key reference
)

var viewNames = [...]string{ViewClinics: "clinics", ViewAgenda: "agenda", ViewHelp: "help"}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged asks the app to switch views. Switching to help remembers
// the view to return to.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred puts Err on the status bar.
type ErrorOccurred struct {
	Err error
}

type Quit struct{}

type TenantsLoaded struct {
	Tenants []domain.Tenant
	Err     error
}

// TenantSelected opens a clinic's agenda.
type TenantSelected struct {
	Tenant domain.Tenant
}

// AgendaLoaded carries one local day of appointments. Names maps client
// and pet IDs to display names; IDs that failed to resolve are absent.
type AgendaLoaded struct {
	TenantID     string
	Date         time.Time
	Appointments []domain.Appointment
	Names        map[string]string
	Err          error
}

// AppointmentTransitioned reports the outcome of a status change.
type AppointmentTransitioned struct {
	Appointment *domain.Appointment
	Status      domain.AppointmentStatus
	Err         error
}
